// Command poetry converts IPv6 addresses to memorable word phrases and
// back, and manages the 65536-entry dictionary the conversion relies on.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/ulikunitz/xz"

	"github.com/ipv6poetry/poetrytools/core/poetry"
	"github.com/ipv6poetry/poetrytools/core/wordlist"
	"github.com/ipv6poetry/poetrytools/internal/api"
	"github.com/ipv6poetry/poetrytools/internal/logging"
)

const version = "1.0.0"

// CLI defines the command-line interface for poetry.
var CLI struct {
	// Global flags
	WordlistDir string `name:"wordlist-dir" short:"w" default:"wordlists" help:"Directory containing the wordlist" type:"path"`
	LogLevel    string `name:"log-level" default:"warn" enum:"debug,info,warn,error" help:"Log level"`
	LogFormat   string `name:"log-format" default:"text" enum:"text,json" help:"Log output format"`

	ToPoetry ToPoetryCmd   `cmd:"" name:"to-poetry" help:"Convert an IPv6 address to a poetic phrase"`
	ToIPv6   ToIPv6Cmd     `cmd:"" name:"to-ipv6" help:"Convert a poetic phrase back to an IPv6 address"`
	Batch    BatchCmd      `cmd:"" help:"Convert addresses or phrases line by line from a file"`
	Generate GenerateCmd   `cmd:"" help:"Generate the wordlist"`
	Wordlist WordlistGroup `cmd:"" help:"Wordlist integrity operations"`
	Serve    ServeCmd      `cmd:"" help:"Start the REST API server"`
	Version  VersionCmd    `cmd:"" help:"Print version information"`
}

// loadCodec loads the shared dictionary and reports its load-time
// diagnostics before handing the codec to a command.
func loadCodec() (*poetry.Codec, error) {
	list, err := wordlist.LoadDir(CLI.WordlistDir)
	if err != nil {
		return nil, err
	}
	for _, d := range poetry.SizeDiagnostic(list.Len()) {
		fmt.Fprintln(os.Stderr, "warning:", d)
		logging.Diagnostic(string(d.Kind), "count", d.Count)
	}
	return poetry.NewCodec(list), nil
}

// ToPoetryCmd converts an address to its phrase.
type ToPoetryCmd struct {
	Address string `arg:"" help:"IPv6 address to convert"`
}

func (c *ToPoetryCmd) Run() error {
	codec, err := loadCodec()
	if err != nil {
		return err
	}
	phrase, err := codec.Encode(c.Address)
	if err != nil {
		return err
	}
	fmt.Println(phrase)
	return nil
}

// ToIPv6Cmd converts a phrase back to the canonical address. Warnings go
// to stderr and never change the exit status.
type ToIPv6Cmd struct {
	Words []string `arg:"" name:"word" help:"Phrase words (8 segment words plus optional checksum word)"`
}

func (c *ToIPv6Cmd) Run() error {
	codec, err := loadCodec()
	if err != nil {
		return err
	}
	addr, diags, err := codec.Decode(strings.Join(c.Words, " "))
	if err != nil {
		return err
	}
	for _, d := range diags {
		fmt.Fprintln(os.Stderr, "warning:", d)
	}
	fmt.Println(addr)
	return nil
}

// BatchCmd bulk-converts one input per line. Lines that fail are reported
// on stderr and skipped; the run only fails when nothing could be read.
type BatchCmd struct {
	In     string `name:"in" required:"" help:"Input file, one address (or phrase with --decode) per line" type:"existingfile"`
	Out    string `name:"out" help:"Output file (default stdout)"`
	Decode bool   `name:"decode" help:"Treat input lines as phrases instead of addresses"`
}

func (c *BatchCmd) Run() error {
	codec, err := loadCodec()
	if err != nil {
		return err
	}

	in, err := os.Open(c.In)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	var out io.Writer = os.Stdout
	if c.Out != "" {
		f, err := os.Create(c.Out)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	sc := bufio.NewScanner(in)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if c.Decode {
			addr, diags, err := codec.Decode(line)
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: line %d: %v\n", lineNo, err)
				continue
			}
			for _, d := range diags {
				fmt.Fprintf(os.Stderr, "warning: line %d: %v\n", lineNo, d)
			}
			fmt.Fprintln(out, addr)
		} else {
			phrase, err := codec.Encode(line)
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: line %d: %v\n", lineNo, err)
				continue
			}
			fmt.Fprintln(out, phrase)
		}
	}
	return sc.Err()
}

// GenerateCmd builds the full dictionary and writes it in the requested
// format, along with its integrity manifest.
type GenerateCmd struct {
	OutputDir string `name:"output-dir" help:"Output directory (default: the wordlist directory)" type:"path"`
	Format    string `name:"format" default:"txt" enum:"txt,xz,sqlite" help:"Output format"`
}

func (c *GenerateCmd) Run() error {
	dir := c.OutputDir
	if dir == "" {
		dir = CLI.WordlistDir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	words, err := wordlist.Generate()
	if err != nil {
		return err
	}

	var path string
	switch c.Format {
	case "xz":
		path = filepath.Join(dir, wordlist.FileXZ)
		if err := writeXZ(path, words); err != nil {
			return err
		}
	case "sqlite":
		path = filepath.Join(dir, wordlist.FileSQLite)
		if err := wordlist.SaveStore(path, words); err != nil {
			return err
		}
	default:
		path = filepath.Join(dir, wordlist.FileTXT)
		if err := writeText(path, words); err != nil {
			return err
		}
	}

	list, err := wordlist.New(words)
	if err != nil {
		return err
	}
	manifest := filepath.Join(dir, wordlist.ManifestFile)
	if err := list.WriteManifest(manifest); err != nil {
		return err
	}

	fmt.Printf("Generated %d words in %s\n", len(words), path)
	return nil
}

func writeText(path string, words []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wordlist: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, word := range words {
		fmt.Fprintln(w, word)
	}
	return w.Flush()
}

func writeXZ(path string, words []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wordlist: %w", err)
	}
	defer f.Close()

	xzw, err := xz.NewWriter(f)
	if err != nil {
		return fmt.Errorf("xz writer: %w", err)
	}
	for _, word := range words {
		if _, err := io.WriteString(xzw, word+"\n"); err != nil {
			return fmt.Errorf("write wordlist: %w", err)
		}
	}
	return xzw.Close()
}

// WordlistGroup contains wordlist integrity operations.
type WordlistGroup struct {
	Hash   WordlistHashCmd   `cmd:"" help:"Print the wordlist BLAKE3 digest"`
	Verify WordlistVerifyCmd `cmd:"" help:"Verify the wordlist against its manifest"`
	Info   WordlistInfoCmd   `cmd:"" help:"Print wordlist statistics"`
}

// WordlistHashCmd prints the dictionary digest and refreshes the manifest
// when asked.
type WordlistHashCmd struct {
	Write bool `name:"write" help:"Also write the manifest file"`
}

func (c *WordlistHashCmd) Run() error {
	list, err := wordlist.LoadDir(CLI.WordlistDir)
	if err != nil {
		return err
	}
	fmt.Println(list.Digest())
	if c.Write {
		return list.WriteManifest(filepath.Join(CLI.WordlistDir, wordlist.ManifestFile))
	}
	return nil
}

// WordlistVerifyCmd verifies the dictionary against its manifest.
type WordlistVerifyCmd struct{}

func (c *WordlistVerifyCmd) Run() error {
	list, err := wordlist.LoadDir(CLI.WordlistDir)
	if err != nil {
		return err
	}
	manifest := filepath.Join(CLI.WordlistDir, wordlist.ManifestFile)
	if err := list.VerifyManifest(manifest); err != nil {
		return err
	}
	fmt.Println("wordlist OK")
	return nil
}

// WordlistInfoCmd prints dictionary statistics.
type WordlistInfoCmd struct{}

func (c *WordlistInfoCmd) Run() error {
	list, err := wordlist.LoadDir(CLI.WordlistDir)
	if err != nil {
		return err
	}
	fmt.Printf("words:  %d\n", list.Len())
	fmt.Printf("digest: %s\n", list.Digest())
	if list.SizeMismatch() {
		fmt.Printf("note:   size deviates from the nominal %d entries\n", wordlist.ExpectedSize)
	}
	return nil
}

// ServeCmd starts the REST API server.
type ServeCmd struct {
	Port           int      `name:"port" default:"8466" help:"Port to listen on"`
	AllowedOrigins []string `name:"allowed-origins" help:"CORS allowed origins (default: allow all)"`
}

func (c *ServeCmd) Run() error {
	srv, err := api.NewServer(api.Config{
		Port:           c.Port,
		WordlistDir:    CLI.WordlistDir,
		AllowedOrigins: c.AllowedOrigins,
	})
	if err != nil {
		return err
	}
	return srv.Start()
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("poetry %s\n", version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("poetry"),
		kong.Description("IPv6 poetry tools - memorable word phrases for IPv6 addresses"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	logging.InitLogger(logging.ParseLevel(CLI.LogLevel), logging.ParseFormat(CLI.LogFormat))
	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
