// Package account holds the commands that sign users in and out
package account

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/listboard/internal/auth"
	"github.com/thenoetrevino/listboard/internal/cli"
	"github.com/thenoetrevino/listboard/internal/user"
)

// PasswordEnv supplies the password when --password is not given
const PasswordEnv = "LISTBOARD_PASSWORD"

// Commands returns the account commands, registered at the top level
func Commands() []*cobra.Command {
	return []*cobra.Command{
		RegisterCmd(),
		LoginCmd(),
		LogoutCmd(),
		WhoamiCmd(),
	}
}

// RegisterCmd returns the register command
func RegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Long: `Create an email/password account and sign in as it. Your board starts
with the Todo, Doing and Done columns.

The password is read from --password, then $LISTBOARD_PASSWORD, then
the first line of stdin.

Examples:
  listboard register --email ada@example.com
  LISTBOARD_PASSWORD=... listboard register --email ada@example.com --name "Ada L" --json
`,
		Args: cobra.NoArgs,
		RunE: runRegister,
	}

	cmd.Flags().String("email", "", "Email address (required)")
	if err := cmd.MarkFlagRequired("email"); err != nil {
		slog.Error("failed to mark flag as required", "error", err)
	}
	cmd.Flags().String("name", "", "Display name (defaults to your system username)")
	cmd.Flags().String("password", "", "Password, at least 8 characters")

	cli.AddOutputFlags(cmd)
	return cmd
}

// LoginCmd returns the login command
func LoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in",
		Long: `Sign in with an email and password, or with an ID token issued by the
configured identity provider.

Examples:
  listboard login --email ada@example.com
  listboard login --token "$ID_TOKEN"
`,
		Args: cobra.NoArgs,
		RunE: runLogin,
	}

	cmd.Flags().String("email", "", "Email address")
	cmd.Flags().String("password", "", "Password")
	cmd.Flags().String("token", "", "ID token to sign in with instead of a password")
	cmd.MarkFlagsOneRequired("email", "token")
	cmd.MarkFlagsMutuallyExclusive("email", "token")

	cli.AddOutputFlags(cmd)
	return cmd
}

// LogoutCmd returns the logout command
func LogoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Args:  cobra.NoArgs,
		RunE:  runLogout,
	}

	cli.AddOutputFlags(cmd)
	return cmd
}

// WhoamiCmd returns the whoami command
func WhoamiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE:  runWhoami,
	}

	cli.AddOutputFlags(cmd)
	return cmd
}

func runRegister(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.Formatter(cmd)

	email, _ := cmd.Flags().GetString("email")
	name, _ := cmd.Flags().GetString("name")
	if strings.TrimSpace(name) == "" {
		name = user.DisplayName()
	}

	password, err := readPassword(cmd)
	if err != nil {
		return cli.Fail(formatter, err)
	}

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		return cli.Fail(formatter, err)
	}
	defer func() {
		if err := cliInstance.Close(); err != nil {
			slog.Error("failed to close CLI", "error", err)
		}
	}()

	if cliInstance.App.Provider == nil {
		return cli.Fail(formatter, auth.ErrUnsupported)
	}
	res, err := cliInstance.App.Provider.Register(ctx, email, password, name)
	if err != nil {
		return cli.Fail(formatter, err)
	}
	u, err := cliInstance.App.Session.Login(ctx, res.Token)
	if err != nil {
		return cli.Fail(formatter, err)
	}

	// Seed the default columns now rather than on first use
	if _, err := cliInstance.Board(ctx); err != nil {
		return cli.Fail(formatter, err)
	}

	return formatter.Success(u, fmt.Sprintf("✓ Registered and signed in as %s <%s>", u.Name, u.Email))
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.Formatter(cmd)

	email, _ := cmd.Flags().GetString("email")
	token, _ := cmd.Flags().GetString("token")

	var password string
	if token == "" {
		var err error
		if password, err = readPassword(cmd); err != nil {
			return cli.Fail(formatter, err)
		}
	}

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		return cli.Fail(formatter, err)
	}
	defer func() {
		if err := cliInstance.Close(); err != nil {
			slog.Error("failed to close CLI", "error", err)
		}
	}()

	if token == "" {
		if cliInstance.App.Provider == nil {
			return cli.Fail(formatter, auth.ErrUnsupported)
		}
		res, err := cliInstance.App.Provider.Login(ctx, email, password)
		if err != nil {
			return cli.Fail(formatter, err)
		}
		token = res.Token
	}

	u, err := cliInstance.App.Session.Login(ctx, token)
	if err != nil {
		return cli.Fail(formatter, err)
	}

	return formatter.Success(u, fmt.Sprintf("✓ Signed in as %s <%s>", u.Name, u.Email))
}

func runLogout(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.Formatter(cmd)

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		return cli.Fail(formatter, err)
	}
	defer func() {
		if err := cliInstance.Close(); err != nil {
			slog.Error("failed to close CLI", "error", err)
		}
	}()

	u, signedIn := cliInstance.App.Session.CurrentUser()
	if err := cliInstance.App.Session.Logout(); err != nil {
		return cli.Fail(formatter, err)
	}

	if !signedIn {
		return formatter.Success(map[string]bool{"signedOut": true}, "Already signed out")
	}
	return formatter.Success(u, fmt.Sprintf("✓ Signed out %s", u.Email))
}

func runWhoami(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.Formatter(cmd)

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		return cli.Fail(formatter, err)
	}
	defer func() {
		if err := cliInstance.Close(); err != nil {
			slog.Error("failed to close CLI", "error", err)
		}
	}()

	u, err := cliInstance.App.CurrentUser()
	if err != nil {
		return cli.Fail(formatter, err)
	}

	return formatter.Success(u, fmt.Sprintf("%s <%s>  [%s]", u.Name, u.Email, u.ID))
}

// readPassword takes the password from the flag, the environment or the
// first line of stdin, in that order
func readPassword(cmd *cobra.Command) (string, error) {
	if password, _ := cmd.Flags().GetString("password"); password != "" {
		return password, nil
	}
	if password := os.Getenv(PasswordEnv); password != "" {
		return password, nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
