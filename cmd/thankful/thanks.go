package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/unowned-ai/thankful/pkg/photos"
	"github.com/unowned-ai/thankful/pkg/thanks"
)

var (
	searchFlag    string
	sortFlag      string
	favoritesFlag bool
	followFlag    bool
	intervalFlag  time.Duration
	photoOutFlag  string
	eraseYesFlag  bool
)

var thanksCmd = &cobra.Command{
	Use:   "thanks",
	Short: "Manage the things you are thankful for",
	Long:  `Add, list, edit, and delete thanks entries and their photos.`,
}

var addThanksCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a thanks entry",
	Long: `Add a new thanks entry. An entry whose title is empty after trimming is
discarded and nothing is saved.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		d := thanks.NewDraft(time.Now())
		if err := applyDraftFlags(cmd, &d); err != nil {
			return err
		}

		entry, committed, err := a.editor.Commit(cmd.Context(), d)
		if err != nil {
			return fmt.Errorf("failed to add entry: %w", err)
		}
		if !committed {
			fmt.Println("Title is empty; nothing was saved.")
			return nil
		}

		fmt.Println("Entry added successfully!")
		printEntry(entry)
		return nil
	},
}

var getThanksCmd = &cobra.Command{
	Use:   "get [entry-id]",
	Short: "Show a thanks entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseEntryID(args[0])
		if err != nil {
			return err
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		entry, err := a.store.Get(cmd.Context(), id)
		if errors.Is(err, thanks.ErrEntryNotFound) {
			return fmt.Errorf("entry not found: %s", args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to get entry: %w", err)
		}

		printEntry(entry)
		return nil
	},
}

var listThanksCmd = &cobra.Command{
	Use:   "list",
	Short: "List thanks entries",
	Long: `List thanks entries. The list is filtered to favorites (--favorites), then
to entries whose title or reason contains the search text (--search, case
insensitive), then sorted (--sort). With --follow the list is printed again
whenever the stored entries change.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sort, err := thanks.ParseSortOption(sortFlag)
		if err != nil {
			return err
		}
		opts := thanks.ViewOptions{
			FavoritesOnly: favoritesFlag,
			SearchText:    searchFlag,
			Sort:          sort,
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if followFlag {
			a.logger.Info("following entries", zap.Duration("interval", intervalFlag))
			return thanks.Poll(cmd.Context(), a.store, opts, intervalFlag, func(entries []thanks.Entry) {
				fmt.Printf("\n%s\n", formatTime(time.Now()))
				printEntries(entries)
			})
		}

		entries, err := a.store.List(cmd.Context(), sort)
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}
		printEntries(thanks.Project(entries, opts))
		return nil
	},
}

var editThanksCmd = &cobra.Command{
	Use:   "edit [entry-id]",
	Short: "Edit a thanks entry",
	Long: `Change the fields given by flags and leave the rest as they are. Setting an
empty title discards the edit and the stored entry is left untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseEntryID(args[0])
		if err != nil {
			return err
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		entry, err := a.store.Get(cmd.Context(), id)
		if errors.Is(err, thanks.ErrEntryNotFound) {
			return fmt.Errorf("entry not found: %s", args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to get entry: %w", err)
		}

		d := thanks.DraftFrom(entry)
		if err := applyDraftFlags(cmd, &d); err != nil {
			return err
		}

		updated, committed, err := a.editor.Commit(cmd.Context(), d)
		if errors.Is(err, thanks.ErrEntryNotFound) {
			return fmt.Errorf("entry not found: %s", args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to update entry: %w", err)
		}
		if !committed {
			fmt.Println("Title is empty; the entry was left unchanged.")
			return nil
		}

		fmt.Println("Entry updated successfully!")
		printEntry(updated)
		return nil
	},
}

var deleteThanksCmd = &cobra.Command{
	Use:   "delete [entry-id]...",
	Short: "Delete thanks entries",
	Long:  `Delete entries and their photos. Deleting an entry that no longer exists is not an error.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := make([]uuid.UUID, 0, len(args))
		for _, arg := range args {
			id, err := parseEntryID(arg)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		for _, id := range ids {
			if err := a.store.Delete(cmd.Context(), id); err != nil {
				return fmt.Errorf("failed to delete entry %s: %w", id, err)
			}
			fmt.Printf("Entry %s deleted.\n", id)
		}
		return nil
	},
}

var favoriteThanksCmd = &cobra.Command{
	Use:   "favorite [entry-id]",
	Short: "Toggle the favorite flag of an entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseEntryID(args[0])
		if err != nil {
			return err
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		entry, err := a.store.ToggleFavorite(cmd.Context(), id)
		if errors.Is(err, thanks.ErrEntryNotFound) {
			return fmt.Errorf("entry not found: %s", args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to toggle favorite: %w", err)
		}

		if entry.IsFavorite {
			fmt.Printf("%s is now a favorite.\n", entry.Title)
		} else {
			fmt.Printf("%s is no longer a favorite.\n", entry.Title)
		}
		return nil
	},
}

var photoCmd = &cobra.Command{
	Use:   "photo",
	Short: "Attach or read the photo of an entry",
}

var photoSetCmd = &cobra.Command{
	Use:   "set [entry-id] [file]",
	Short: "Attach a photo to an entry, replacing any existing one",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseEntryID(args[0])
		if err != nil {
			return err
		}
		data, err := readPhotoFile(args[1])
		if err != nil {
			return err
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		entry, err := a.store.Get(cmd.Context(), id)
		if errors.Is(err, thanks.ErrEntryNotFound) {
			return fmt.Errorf("entry not found: %s", args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to get entry: %w", err)
		}

		d := thanks.DraftFrom(entry)
		d.Photo = data
		if _, _, err := a.editor.Commit(cmd.Context(), d); err != nil {
			return fmt.Errorf("failed to attach photo: %w", err)
		}
		fmt.Printf("Photo attached to %s (%d bytes).\n", id, len(data))
		return nil
	},
}

var photoGetCmd = &cobra.Command{
	Use:   "get [entry-id]",
	Short: "Write the photo of an entry to a file or stdout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseEntryID(args[0])
		if err != nil {
			return err
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		data, err := a.store.Photo(cmd.Context(), id)
		switch {
		case errors.Is(err, thanks.ErrEntryNotFound):
			return fmt.Errorf("entry not found: %s", args[0])
		case errors.Is(err, photos.ErrNotFound):
			return fmt.Errorf("entry %s has no photo", args[0])
		case err != nil:
			return fmt.Errorf("failed to read photo: %w", err)
		}

		if photoOutFlag == "" || photoOutFlag == "-" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(photoOutFlag, data, 0o644); err != nil {
			return fmt.Errorf("failed to write photo: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Photo written to %s.\n", photoOutFlag)
		return nil
	},
}

var eraseThanksCmd = &cobra.Command{
	Use:   "erase",
	Short: "Delete every entry and photo",
	Long: `Delete every thanks entry together with its photo. This cannot be undone, so
--yes is required. A failure leaves the journal in an unknown state and
stops the program.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !eraseYesFlag {
			return errors.New("refusing to erase without --yes")
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := a.store.EraseAll(cmd.Context())
		if err != nil {
			a.logger.Fatal("failed to erase entries", zap.Error(err))
		}
		fmt.Printf("Erased %d entries.\n", n)
		return nil
	},
}

var iconsCmd = &cobra.Command{
	Use:   "icons",
	Short: "List the icons an entry may use",
	Run: func(cmd *cobra.Command, args []string) {
		for _, icon := range thanks.Icons {
			if icon == thanks.DefaultIcon {
				fmt.Printf("%s (default)\n", icon)
				continue
			}
			fmt.Println(icon)
		}
	},
}

// applyDraftFlags copies the entry flags that were set on the command line onto d.
func applyDraftFlags(cmd *cobra.Command, d *thanks.Draft) error {
	flags := cmd.Flags()

	if flags.Changed("title") {
		d.Title, _ = flags.GetString("title")
	}
	if flags.Changed("reason") {
		d.Reason, _ = flags.GetString("reason")
	}
	if flags.Changed("favorite") {
		d.IsFavorite, _ = flags.GetBool("favorite")
	}
	if flags.Changed("date") {
		raw, _ := flags.GetString("date")
		date, err := thanks.ParseDate(raw)
		if err != nil {
			return err
		}
		d.Date = date
	}
	if flags.Changed("icon") {
		raw, _ := flags.GetString("icon")
		icon, err := thanks.ParseIcon(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("%w (see 'thankful thanks icons')", err)
		}
		d.Icon = icon
	}
	if flags.Changed("color") {
		raw, _ := flags.GetString("color")
		c, err := thanks.ParseColor(raw)
		if err != nil {
			return err
		}
		d.ColorHex = c.Hex()
	}
	if flags.Changed("photo") {
		path, _ := flags.GetString("photo")
		data, err := readPhotoFile(path)
		if err != nil {
			return err
		}
		d.Photo = data
	}
	return nil
}

func addDraftFlags(cmd *cobra.Command) {
	cmd.Flags().String("title", "", "What you are thankful for")
	cmd.Flags().String("reason", "", "Why you are thankful for it")
	cmd.Flags().String("date", "", "Date of the entry (YYYY-MM-DD or RFC3339, default: now)")
	cmd.Flags().Bool("favorite", false, "Mark the entry as a favorite")
	cmd.Flags().String("icon", "", fmt.Sprintf("Icon name (default: %s)", thanks.DefaultIcon))
	cmd.Flags().String("color", "", fmt.Sprintf("Hex color, RRGGBB or RRGGBBAA (default: %s)", thanks.DefaultColorHex))
	cmd.Flags().String("photo", "", "Path to an image file to attach")
}

func initThanksCmd() {
	addDraftFlags(addThanksCmd)
	addDraftFlags(editThanksCmd)

	listThanksCmd.Flags().StringVar(&searchFlag, "search", "", "Only show entries whose title or reason contains this text")
	listThanksCmd.Flags().StringVar(&sortFlag, "sort", thanks.SortDateDesc.String(), "Sort order: title-asc, title-desc, date-asc, date-desc")
	listThanksCmd.Flags().BoolVar(&favoritesFlag, "favorites", false, "Only show favorites")
	listThanksCmd.Flags().BoolVar(&followFlag, "follow", false, "Keep running and print the list again whenever it changes")
	listThanksCmd.Flags().DurationVar(&intervalFlag, "interval", 2*time.Second, "How often --follow checks for changes")

	photoGetCmd.Flags().StringVarP(&photoOutFlag, "out", "o", "", "File to write the photo to (default: stdout)")
	photoCmd.AddCommand(photoSetCmd, photoGetCmd)

	eraseThanksCmd.Flags().BoolVar(&eraseYesFlag, "yes", false, "Confirm that every entry should be deleted")

	thanksCmd.AddCommand(addThanksCmd, getThanksCmd, listThanksCmd, editThanksCmd, deleteThanksCmd,
		favoriteThanksCmd, photoCmd, eraseThanksCmd, iconsCmd)
}
