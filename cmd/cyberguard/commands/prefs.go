package commands

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cyberguard/cyberguard/pkg/storage"
)

func openPrefs() (storage.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return storage.NewYAMLStore(cfg.Preferences.Path), nil
}

func newPrefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change UI preferences",
		// Short: 查看或修改界面偏好
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print the current preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openPrefs()
			if err != nil {
				return err
			}
			p, err := store.Load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "theme: %s\n", p.Theme)
			keys := make([]string, 0, len(p.Consent))
			for k := range p.Consent {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(out, "consent.%s: %t\n", k, p.Consent[k])
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:       "set-theme <light|dark|system>",
		Short:     "Set the UI theme",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{storage.ThemeLight, storage.ThemeDark, storage.ThemeSystem},
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openPrefs()
			if err != nil {
				return err
			}
			if err := store.SetTheme(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Theme set to %s\n", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "consent <key> <true|false>",
		Short: "Grant or revoke a consent category",
		Long: `Grant or revoke a consent category: essential, functional, analytics, marketing.
Essential consent cannot be revoked.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			granted, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("invalid value %q: expected true or false", args[1])
			}
			store, err := openPrefs()
			if err != nil {
				return err
			}
			if err := store.SetConsent(args[0], granted); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Consent %s = %t\n", args[0], granted)
			return nil
		},
	})
	return cmd
}
