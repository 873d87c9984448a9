package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rivo/tview"

	"github.com/deathrjj/ghusers/config"
	"github.com/deathrjj/ghusers/credentials"
	"github.com/deathrjj/ghusers/github"
	"github.com/deathrjj/ghusers/models"
	"github.com/deathrjj/ghusers/session"
	"github.com/deathrjj/ghusers/ui"
)

// CLI is the command line of ghusers.
type CLI struct {
	Globals

	Version kong.VersionFlag `help:"Print version information and exit."`

	Tui    TuiCmd    `cmd:"" default:"withargs" help:"Interactive search (default)."`
	Search SearchCmd `cmd:"" help:"Print one page of user search results."`
	User   UserCmd   `cmd:"" help:"Print a user's profile and total stars."`
	Seal   SealCmd   `cmd:"" help:"Encrypt a GitHub token with age for use with --token-file."`
}

// Globals are the flags shared by every command.
type Globals struct {
	APIURL     string        `name:"api-url" env:"GITHUB_API_URL" default:"https://api.github.com" help:"GitHub REST API base URL."`
	Token      string        `env:"GITHUB_TOKEN,GH_TOKEN,VITE_APP_GITHUB_API_KEY" help:"GitHub token sent with every request."`
	TokenFile  string        `name:"token-file" env:"GHUSERS_TOKEN_FILE" type:"path" help:"Armored age file holding the GitHub token."`
	Identity   string        `env:"AGE_PRIVATE_KEY_PATH" type:"path" help:"age or SSH private key used to decrypt --token-file."`
	Passphrase string        `env:"AGE_KEY_PASSPHRASE" help:"Passphrase of a protected SSH key."`
	NoGHAuth   bool          `name:"no-gh-auth" env:"GHUSERS_NO_GH_AUTH" help:"Do not fall back to the token stored by the gh CLI."`
	Timeout    time.Duration `env:"GHUSERS_TIMEOUT" help:"HTTP request timeout, 0 for none."`
	LogFile    string        `name:"log-file" env:"GHUSERS_LOG_FILE" type:"path" help:"Write logs to this file."`
	Debug      bool          `env:"GHUSERS_DEBUG" help:"Enable debug logging."`
}

// runtimeEnv holds what every command needs once flags are parsed.
type runtimeEnv struct {
	logger *slog.Logger
	closer io.Closer
	client *github.Client
}

func (g *Globals) open() (env *runtimeEnv, err error) {
	logger, closer, err := config.NewLogger(g.LogFile, g.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() {
		if env == nil {
			err = errors.Join(err, closer.Close())
		}
	}()

	token, source, err := credentials.Resolve(credentials.Options{
		Token:        g.Token,
		TokenFile:    g.TokenFile,
		IdentityPath: g.Identity,
		Passphrase:   g.Passphrase,
		UseGH:        !g.NoGHAuth,
		APIURL:       g.APIURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve GitHub token: %w", err)
	}
	logger.Info("starting", slog.String("api", g.APIURL), slog.String("token_source", string(source)))

	client := github.NewClient(github.Options{
		BaseURL: g.APIURL,
		Token:   token,
		Timeout: g.Timeout,
		Logger:  logger,
	})

	return &runtimeEnv{logger: logger, closer: closer, client: client}, nil
}

// TuiCmd runs the terminal UI.
type TuiCmd struct {
	Username string `short:"u" help:"Prefill the username field and search right away."`
	Location string `short:"l" help:"Prefill the location field and search right away."`
	MinRepos string `name:"min-repos" short:"r" help:"Prefill the minimum repository count and search right away."`
	Prefs    string `env:"GHUSERS_PREFS" type:"path" help:"Preference file for the theme (default: user config dir)."`
}

func (c *TuiCmd) Run(g *Globals) error {
	env, err := g.open()
	if err != nil {
		return err
	}
	defer env.closer.Close()

	path := c.Prefs
	if path == "" {
		path = config.DefaultPrefsPath()
	}
	prefs, err := config.LoadPrefs(path)
	if err != nil {
		env.logger.Warn("ignoring unreadable preference file", slog.String("path", path), slog.String("error", err.Error()))
		prefs, _ = config.LoadPrefs("")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := tview.NewApplication()
	controller := session.NewController(env.client, env.logger)
	searchUI := ui.NewSearchUI(app, controller, prefs, env.logger)
	searchUI.Start(ctx, ui.FormValues{
		Username: c.Username,
		Location: c.Location,
		MinRepos: c.MinRepos,
	})

	return app.Run()
}

// SearchCmd prints one page of search results.
type SearchCmd struct {
	Username string `short:"u" help:"Match users whose login contains this text."`
	Location string `short:"l" help:"Match users in this location."`
	MinRepos string `name:"min-repos" short:"r" help:"Match users with at least this many public repositories."`
	Page     int    `default:"1" help:"Result page to print."`
}

func (c *SearchCmd) Run(g *Globals) error {
	env, err := g.open()
	if err != nil {
		return err
	}
	defer env.closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	controller := session.NewController(env.client, env.logger)
	controller.Submit(ctx, models.NewSearchCriteria(c.Username, c.Location, c.MinRepos))

	st := controller.State()
	if st.SearchError == nil && c.Page != 1 {
		if !controller.ChangePage(ctx, c.Page) {
			return fmt.Errorf("page %d is out of range (1-%d)", c.Page, st.CurrentPage.LastPage())
		}
		st = controller.State()
	}
	if st.SearchError != nil {
		return st.SearchError
	}

	return printSearchPage(os.Stdout, st.CurrentPage)
}

func printSearchPage(w io.Writer, page models.SearchPage) error {
	fmt.Fprintf(w, "%s (page %d of %d)\n\n", ui.ResultsHeader(page), page.PageNumber, page.LastPage())

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LOGIN\tID\tPROFILE")
	for _, u := range page.Items {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", u.Login, u.ID, u.ProfileURL)
	}
	return tw.Flush()
}

// UserCmd prints a profile with its star total.
type UserCmd struct {
	Login string `arg:"" help:"GitHub login."`
}

func (c *UserCmd) Run(g *Globals) error {
	env, err := g.open()
	if err != nil {
		return err
	}
	defer env.closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	profile, err := session.LoadProfile(ctx, env.client, c.Login)
	if err != nil {
		return github.AsFailure(err, "Failed to load user details. Please try again.")
	}
	return printProfile(os.Stdout, profile)
}

func printProfile(w io.Writer, p models.UserProfile) error {
	orNA := func(s string) string {
		if strings.TrimSpace(s) == "" {
			return "Not Available"
		}
		return s
	}
	bio := p.Bio
	if strings.TrimSpace(bio) == "" {
		bio = "No bio available."
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Name:\t%s (@%s)\n", p.DisplayName(), p.Login)
	fmt.Fprintf(tw, "Joined:\t%s\n", ui.FormatJoined(p.CreatedAt))
	fmt.Fprintf(tw, "Bio:\t%s\n", bio)
	fmt.Fprintf(tw, "Repos:\t%d\n", p.PublicRepos)
	fmt.Fprintf(tw, "Followers:\t%d\n", p.Followers)
	fmt.Fprintf(tw, "Following:\t%d\n", p.Following)
	fmt.Fprintf(tw, "Stars:\t%d\n", p.TotalStars)
	fmt.Fprintf(tw, "Location:\t%s\n", orNA(p.Location))
	fmt.Fprintf(tw, "Blog:\t%s\n", orNA(p.Blog))
	fmt.Fprintf(tw, "Twitter:\t%s\n", orNA(p.Twitter))
	fmt.Fprintf(tw, "Company:\t%s\n", orNA(p.Company))
	fmt.Fprintf(tw, "Profile:\t%s\n", p.ProfileURL)
	return tw.Flush()
}

// SealCmd encrypts a token to an age or SSH recipient.
type SealCmd struct {
	Recipient string `short:"R" required:"" help:"age recipient (age1...) or SSH public key."`
	Out       string `short:"o" type:"path" help:"Write the armored file here instead of stdout."`
}

func (c *SealCmd) Run(g *Globals) error {
	token := strings.TrimSpace(g.Token)
	if token == "" {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read token from stdin: %w", err)
		}
		token = strings.TrimSpace(line)
	}
	if token == "" {
		return errors.New("no token given: set GITHUB_TOKEN or pipe it on stdin")
	}

	rec, err := credentials.ParseRecipient(c.Recipient)
	if err != nil {
		return err
	}
	armored, err := credentials.Seal(token, rec)
	if err != nil {
		return fmt.Errorf("failed to encrypt token: %w", err)
	}

	if c.Out == "" {
		_, err = io.WriteString(os.Stdout, armored)
		return err
	}
	return os.WriteFile(c.Out, []byte(armored), 0o600)
}
