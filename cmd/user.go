package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mmc102/partner-finder/internal/services"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts",
}

var userAddCmd = &cobra.Command{
	Use:   "add NAME EMAIL",
	Short: "Create an account, prompting for the password",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		password, err := readPassword()
		if err != nil {
			return err
		}

		ctx := context.Background()
		store, err := openStore(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer store.Close()

		svc := newServices(cfg, store)
		user, err := svc.Users.Register(ctx, services.RegisterRequest{
			Name:     args[0],
			Email:    args[1],
			Password: password,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Created user %d (%s)\n", user.ID, user.Email)
		return nil
	},
}

func init() {
	userCmd.AddCommand(userAddCmd)
}

// readPassword reads the password without echo from a terminal, or as a
// single line from piped stdin.
func readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(os.Stderr, "Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}

	fmt.Fprint(os.Stderr, "Repeat password: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}

	if string(first) != string(second) {
		return "", fmt.Errorf("passwords do not match")
	}
	return string(first), nil
}
