package thanks

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Icon is a symbolic icon name from the fixed Icons set.
type Icon string

const (
	IconStar     Icon = "star.fill"
	IconSwirl    Icon = "swirl.circle.righthalf.filled.inverse"
	IconCircle   Icon = "circle.dotted.circle.fill"
	IconPerson   Icon = "person.fill"
	IconSun      Icon = "sun.min.fill"
	IconPencil   Icon = "pencil.circle"
	IconKeyboard Icon = "keyboard"
	IconFlag     Icon = "flag.pattern.checkered"
	IconChain    Icon = "personalhotspot"
	IconWalk     Icon = "figure.walk"
	IconRun      Icon = "figure.run"
	IconMoon     Icon = "moonphase.waxing.gibbous.inverse"
	IconBird     Icon = "bird.fill"

	DefaultIcon = IconStar
)

// Icons lists every icon an entry may be created with, in picker order.
var Icons = []Icon{
	IconStar, IconSwirl, IconCircle, IconPerson, IconSun, IconPencil, IconKeyboard,
	IconFlag, IconChain, IconWalk, IconRun, IconMoon, IconBird,
}

// ParseIcon returns the Icon named s, or an error if s is not in Icons.
func ParseIcon(s string) (Icon, error) {
	for _, icon := range Icons {
		if string(icon) == s {
			return icon, nil
		}
	}
	return "", fmt.Errorf("unknown icon %q", s)
}

// Entry is one thing the user is thankful for.
type Entry struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Reason     string    `json:"reason"`
	Date       time.Time `json:"date"`
	IsFavorite bool      `json:"is_favorite"`
	Icon       Icon      `json:"icon"`
	ColorHex   string    `json:"color"`
	HasPhoto   bool      `json:"has_photo"`
	CreatedAt  float64   `json:"created_at"`
	UpdatedAt  float64   `json:"updated_at"`
}
