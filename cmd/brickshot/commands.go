package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ds "brickshot/internal/domain/shotlist"
	"brickshot/internal/domain/transfer"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and save the session token",
	Long: `Logs in with email and password and stores the token in the config file.

The password may also be passed in BRICKSHOT_PASSWORD.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			password = os.Getenv("BRICKSHOT_PASSWORD")
		}
		if email == "" || password == "" {
			return fmt.Errorf("email and password are required")
		}

		c, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()
		token, err := c.Login(ctx, email, password)
		if err != nil {
			return err
		}
		settings.Token = token
		if err := saveSettings(configPath, settings); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Logged in to %s\n", settings.Server)
		return nil
	},
}

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List your projects, most recently opened first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		search, _ := cmd.Flags().GetString("search")
		c, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()
		list, err := c.Projects(ctx, search)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(list) == 0 {
			fmt.Fprintln(out, styleMuted.Render("no projects"))
			return nil
		}
		for _, p := range list {
			fmt.Fprintf(out, "%s  %s\n", styleMuted.Render(p.ID), styleTitle.Render(p.Name))
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [project-id]",
	Short: "Download a project as a .brickshot file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		c, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()
		data, name, err := c.Export(ctx, args[0])
		if err != nil {
			return err
		}
		if name == "" {
			name = transfer.FileName(args[0])
		}
		path := filepath.Join(dir, filepath.Base(name))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", path)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Create a new project from a .brickshot file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		// Reject broken files before they reach the server.
		if _, err := transfer.Parse(data); err != nil {
			return err
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()
		p, err := c.Import(ctx, data)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %q as %s\n", p.Name, p.ID)
		return nil
	},
}

var shotsCmd = &cobra.Command{
	Use:   "shots [scene-id]",
	Short: "Show a scene's shot table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetStringSlice("status")
		var statuses []ds.Status
		for _, r := range raw {
			st := ds.Status(strings.TrimSpace(r))
			if !st.Valid() {
				return fmt.Errorf("unknown status %q", r)
			}
			statuses = append(statuses, st)
		}

		c, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()
		b, err := c.Board(ctx, args[0], statuses...)
		if err != nil {
			return err
		}
		renderBoard(cmd.OutOrStdout(), b)
		return nil
	},
}

var cycleCmd = &cobra.Command{
	Use:   "cycle [shot-id]",
	Short: "Advance a shot's status (default, wip, animated)",
	Long: `Advances the shot to its next status. A shot entering wip or animated
without a pinned number is pinned at the number it currently shows.

Use --unsure to toggle the unsure flag instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		unsure, _ := cmd.Flags().GetBool("unsure")
		c, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()
		action := c.CycleStatus
		if unsure {
			action = c.ToggleUnsure
		}
		row, err := action(ctx, args[0])
		if err != nil {
			return err
		}
		renderRow(cmd.OutOrStdout(), *row)
		return nil
	},
}

var pinCmd = &cobra.Command{
	Use:   "pin [shot-id] [number]",
	Short: "Change or clear a pinned shot number",
	Long: `Replaces the pinned number of a shot that is already pinned. Pass an
empty string as the number to unpin it; the shot then takes its automatic
number again.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()
		row, err := c.EditCode(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		renderRow(cmd.OutOrStdout(), *row)
		return nil
	},
}

func init() {
	loginCmd.Flags().String("email", "", "Account email")
	loginCmd.Flags().String("password", "", "Account password")
	projectsCmd.Flags().String("search", "", "Only projects whose name contains this text")
	exportCmd.Flags().String("dir", ".", "Directory to save the file in")
	shotsCmd.Flags().StringSlice("status", nil, "Only show shots with these statuses")
	cycleCmd.Flags().Bool("unsure", false, "Toggle the unsure flag instead of advancing")
}
