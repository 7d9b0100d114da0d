// ABOUTME: Command-line client for the blog service
// ABOUTME: Talks either transport through the client Session with a cached token

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/fatih/color"

	"github.com/2389/blog-server/internal/apperror"
	"github.com/2389/blog-server/internal/client"
)

// Profile is the CLI configuration, loaded from ~/.config/blog/cli.toml.
type Profile struct {
	Transport string `toml:"transport"` // "http" or "grpc"
	HTTPURL   string `toml:"http_url"`
	GRPCAddr  string `toml:"grpc_addr"`
}

func defaultProfile() Profile {
	return Profile{
		Transport: "http",
		HTTPURL:   "http://localhost:8080",
		GRPCAddr:  "localhost:50051",
	}
}

// configDir returns the CLI config directory, honoring XDG_CONFIG_HOME.
func configDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "blog")
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(homeDir, ".config", "blog")
}

func profilePath() string {
	return filepath.Join(configDir(), "cli.toml")
}

func tokenPath() string {
	return filepath.Join(configDir(), "token")
}

// loadProfile reads the TOML profile, falling back to defaults when the
// file does not exist.
func loadProfile() (Profile, error) {
	profile := defaultProfile()
	data, err := os.ReadFile(profilePath())
	if os.IsNotExist(err) {
		return profile, nil
	}
	if err != nil {
		return profile, fmt.Errorf("reading profile: %w", err)
	}
	if err := toml.Unmarshal(data, &profile); err != nil {
		return profile, fmt.Errorf("parsing profile: %w", err)
	}
	return profile, nil
}

// loadToken reads the cached bearer token, if any.
func loadToken() string {
	data, err := os.ReadFile(tokenPath())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// saveToken caches the bearer token for later invocations.
func saveToken(token string) error {
	if err := os.MkdirAll(configDir(), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(tokenPath(), []byte(token), 0600); err != nil {
		return fmt.Errorf("writing token: %w", err)
	}
	return nil
}

func usage() {
	fmt.Println("Usage: blog-cli <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  register -username NAME -email EMAIL -password PW   Create an account")
	fmt.Println("  login -email EMAIL -password PW                     Log in and cache a token")
	fmt.Println("  logout                                              Discard the cached token")
	fmt.Println("  create -title TITLE -content TEXT                   Create a post")
	fmt.Println("  get -id ID                                          Fetch a post")
	fmt.Println("  update -id ID -title TITLE -content TEXT            Update a post")
	fmt.Println("  delete -id ID                                       Delete a post")
	fmt.Println("  list [-author ID] [-limit N] [-offset N]            List posts")
	fmt.Println()
	fmt.Printf("Profile: %s (transport, http_url, grpc_addr)\n", profilePath())
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	if err := run(os.Args[1], os.Args[2:]); err != nil {
		color.New(color.FgRed).Fprint(os.Stderr, "Error: ")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newSession builds a Session from the profile and loads the cached token.
func newSession(profile Profile) (*client.Session, error) {
	var transport client.Transport
	var target string
	switch profile.Transport {
	case "http", "":
		transport, target = client.TransportHTTP, profile.HTTPURL
	case "grpc":
		transport, target = client.TransportGRPC, profile.GRPCAddr
	default:
		return nil, fmt.Errorf("unknown transport %q in profile", profile.Transport)
	}

	session, err := client.NewSession(transport, target)
	if err != nil {
		return nil, err
	}
	if token := loadToken(); token != "" {
		session.SetToken(token)
	}
	return session, nil
}

func run(command string, args []string) error {
	if command == "logout" {
		if err := os.Remove(tokenPath()); err != nil && !os.IsNotExist(err) {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	}

	profile, err := loadProfile()
	if err != nil {
		return err
	}

	session, err := newSession(profile)
	if err != nil {
		return err
	}
	defer session.Close()

	ctx := context.Background()

	switch command {
	case "register":
		return runRegister(ctx, session, args)
	case "login":
		return runLogin(ctx, session, args)
	case "create":
		return runCreate(ctx, session, args)
	case "get":
		return runGet(ctx, session, args)
	case "update":
		return runUpdate(ctx, session, args)
	case "delete":
		return runDelete(ctx, session, args)
	case "list":
		return runList(ctx, session, args)
	default:
		usage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

func runRegister(ctx context.Context, session *client.Session, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	username := fs.String("username", "", "account username")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	_ = fs.Parse(args)

	if *username == "" || *email == "" || *password == "" {
		return fmt.Errorf("register requires -username, -email, and -password")
	}

	user, err := session.Register(ctx, *username, *email, *password)
	if err != nil {
		return describeError(err)
	}

	color.New(color.FgGreen).Printf("Registered %s", user.Username)
	fmt.Printf(" (id %s)\n", user.ID)

	// The HTTP server may hand back a token right away; cache it if so.
	if token := session.Token(); token != "" {
		if err := saveToken(token); err != nil {
			return err
		}
		fmt.Println("Token cached; you are logged in.")
	}
	return nil
}

func runLogin(ctx context.Context, session *client.Session, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	_ = fs.Parse(args)

	if *email == "" || *password == "" {
		return fmt.Errorf("login requires -email and -password")
	}

	if err := session.Login(ctx, *email, *password); err != nil {
		return describeError(err)
	}
	if err := saveToken(session.Token()); err != nil {
		return err
	}

	color.New(color.FgGreen).Println("Logged in.")
	return nil
}

func runCreate(ctx context.Context, session *client.Session, args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	title := fs.String("title", "", "post title")
	content := fs.String("content", "", "post content (Markdown)")
	_ = fs.Parse(args)

	post, err := session.CreatePost(ctx, *title, *content)
	if err != nil {
		return describeError(err)
	}

	color.New(color.FgGreen).Print("Created ")
	fmt.Println(post.ID)
	return nil
}

func runGet(ctx context.Context, session *client.Session, args []string) error {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	id := fs.String("id", "", "post id")
	_ = fs.Parse(args)

	post, err := session.GetPost(ctx, *id)
	if err != nil {
		return describeError(err)
	}

	printPost(post)
	return nil
}

func runUpdate(ctx context.Context, session *client.Session, args []string) error {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	id := fs.String("id", "", "post id")
	title := fs.String("title", "", "new title")
	content := fs.String("content", "", "new content")
	_ = fs.Parse(args)

	post, err := session.UpdatePost(ctx, *id, *title, *content)
	if err != nil {
		return describeError(err)
	}

	color.New(color.FgGreen).Println("Updated.")
	printPost(post)
	return nil
}

func runDelete(ctx context.Context, session *client.Session, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.String("id", "", "post id")
	_ = fs.Parse(args)

	if err := session.DeletePost(ctx, *id); err != nil {
		return describeError(err)
	}

	color.New(color.FgGreen).Println("Deleted.")
	return nil
}

func runList(ctx context.Context, session *client.Session, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	author := fs.String("author", "", "filter by author id")
	limit := fs.Int("limit", 0, "page size")
	offset := fs.Int("offset", 0, "page offset")
	_ = fs.Parse(args)

	posts, err := session.ListPosts(ctx, client.ListOptions{
		AuthorID: *author,
		Limit:    *limit,
		Offset:   *offset,
	})
	if err != nil {
		return describeError(err)
	}

	if len(posts) == 0 {
		fmt.Println("No posts.")
		return nil
	}
	for _, post := range posts {
		color.New(color.FgCyan).Print(post.ID)
		fmt.Printf("  %s", post.Title)
		color.New(color.FgHiBlack).Printf("  by %s at %s\n", post.AuthorID, post.CreatedAt)
	}
	return nil
}

func printPost(post *client.Post) {
	color.New(color.FgCyan).Println(post.Title)
	color.New(color.FgHiBlack).Printf("id %s  author %s  created %s", post.ID, post.AuthorID, post.CreatedAt)
	if post.UpdatedAt != "" {
		color.New(color.FgHiBlack).Printf("  updated %s", post.UpdatedAt)
	}
	fmt.Println()
	fmt.Println()
	fmt.Println(post.Content)
}

// describeError gives auth failures a friendlier hint than the raw message.
func describeError(err error) error {
	switch apperror.KindOf(err) {
	case apperror.KindUnauthenticated:
		return fmt.Errorf("%s (try: blog-cli login)", apperror.Public(err))
	case apperror.KindInvalidToken:
		return fmt.Errorf("%s (token expired? try: blog-cli login)", apperror.Public(err))
	default:
		return fmt.Errorf("%s", apperror.Public(err))
	}
}
