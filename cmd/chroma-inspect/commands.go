package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/ytget/chroma-browser/internal/browser"
	"github.com/ytget/chroma-browser/internal/chroma"
	"github.com/ytget/chroma-browser/internal/config"
	"github.com/ytget/chroma-browser/internal/model"
)

// App metadata keys set in Before
const (
	metadataSettings = "settings"
	metadataLogger   = "logger"
)

// countConcurrency bounds the parallel count requests of list --counts
const countConcurrency = 4

// ErrNotConfirmed is returned by delete when it cannot ask for confirmation
var ErrNotConfirmed = errors.New("refusing to prompt: stdin is not a terminal, pass --yes to delete without confirmation")

// stdinIsTerminal is replaced in tests
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

var outputFlag = &cli.StringFlag{
	Name:    "output",
	Aliases: []string{"o"},
	Value:   string(formatTable),
	Usage:   "Output format: table, json or yaml",
}

var listCmd = &cli.Command{
	Name:  "list",
	Usage: "List collection names",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "counts",
			Usage: "Also fetch the number of chunks of every collection",
		},
		outputFlag,
	},
	Action: func(c *cli.Context) error {
		format, err := parseFormat(c.String("output"))
		if err != nil {
			return err
		}

		client, err := connect(c)
		if err != nil {
			return err
		}

		names, err := client.ListCollections(c.Context)
		if err != nil {
			return err
		}

		var counts []int
		if c.Bool("counts") {
			counts, err = collectionCounts(c.Context, client, names, countConcurrency)
			if err != nil {
				return err
			}
		}

		return writeCollections(c.App.Writer, format, names, counts)
	},
}

var infoCmd = &cli.Command{
	Name:      "info",
	Usage:     "Show the chunk count and metadata of a collection",
	ArgsUsage: "NAME",
	Flags:     []cli.Flag{outputFlag},
	Action: func(c *cli.Context) error {
		name, err := collectionArg(c)
		if err != nil {
			return err
		}
		format, err := parseFormat(c.String("output"))
		if err != nil {
			return err
		}

		client, err := connect(c)
		if err != nil {
			return err
		}

		info, err := client.GetCollectionInfo(c.Context, name)
		if err != nil {
			return err
		}

		return writeInfo(c.App.Writer, format, info)
	},
}

var getCmd = &cli.Command{
	Name:      "get",
	Usage:     "Print the chunks of a collection",
	ArgsUsage: "NAME",
	Flags: []cli.Flag{
		outputFlag,
		&cli.IntFlag{
			Name:  "chunk",
			Usage: "Print only chunk N (1-based)",
		},
	},
	Action: func(c *cli.Context) error {
		name, err := collectionArg(c)
		if err != nil {
			return err
		}
		format, err := parseFormat(c.String("output"))
		if err != nil {
			return err
		}

		client, err := connect(c)
		if err != nil {
			return err
		}

		data, err := client.GetCollectionData(c.Context, name)
		if err != nil {
			return err
		}

		chunks := model.NewChunkSet(model.CollectionRef{Name: name}, data.IDs, data.Documents, data.Metadatas)
		if len(data.Metadatas) < len(data.Documents) {
			loggerFrom(c).Warn("Server returned fewer metadata entries than documents",
				zap.String("collection", name),
				zap.Int("documents", len(data.Documents)),
				zap.Int("metadatas", len(data.Metadatas)))
		}

		indices, err := chunkIndices(chunks, c.Int("chunk"))
		if err != nil {
			return err
		}

		return writeChunks(c.App.Writer, format, chunks, indices)
	},
}

var deleteCmd = &cli.Command{
	Name:      "delete",
	Usage:     "Delete a collection",
	ArgsUsage: "NAME",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "yes",
			Aliases: []string{"y"},
			Usage:   "Do not ask for confirmation",
		},
	},
	Action: func(c *cli.Context) error {
		name, err := collectionArg(c)
		if err != nil {
			return err
		}

		yes := c.Bool("yes")
		if !yes && !stdinIsTerminal() {
			return ErrNotConfirmed
		}

		confirm := browser.ConfirmFunc(func(ctx context.Context, collection string) bool {
			return yes || promptYes(c.App.Reader, c.App.Writer, collection)
		})
		logger := loggerFrom(c)
		controller := browser.NewController(chroma.NewDialer(clientOptions(c)), confirm, logger.Named("browser"))

		conn := connection(c)
		if err := controller.Connect(c.Context, conn.Host, conn.Port); err != nil {
			return err
		}

		deleted, err := controller.DeleteCollection(c.Context, name)
		if err != nil {
			return err
		}
		if !deleted {
			fmt.Fprintln(c.App.Writer, "Aborted")
			return nil
		}

		fmt.Fprintf(c.App.Writer, "Deleted %s\n", name)
		return nil
	},
}

func settingsFrom(c *cli.Context) *config.Settings {
	if s, ok := c.App.Metadata[metadataSettings].(*config.Settings); ok {
		return s
	}
	return config.Default()
}

func loggerFrom(c *cli.Context) *zap.Logger {
	if l, ok := c.App.Metadata[metadataLogger].(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

func connection(c *cli.Context) model.Connection {
	return model.Connection{Host: c.String("host"), Port: c.Int("port")}
}

// clientOptions merges the global flags into the environment settings
func clientOptions(c *cli.Context) chroma.Options {
	opts := settingsFrom(c).ClientOptions(loggerFrom(c).Named("chroma"))
	opts.Tenant = c.String("tenant")
	opts.Database = c.String("database")
	opts.Token = c.String("token")
	opts.Timeout = c.Duration("timeout")
	return opts
}

func connect(c *cli.Context) (*chroma.Client, error) {
	return chroma.Connect(c.Context, connection(c), clientOptions(c))
}

func collectionArg(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", &chroma.ValidationError{
			Field:  "arguments",
			Value:  strings.Join(c.Args().Slice(), " "),
			Reason: "expected exactly one collection NAME",
		}
	}
	return c.Args().First(), nil
}

// collectionCounts reads the item count of every collection, at most limit at a time
func collectionCounts(ctx context.Context, store chroma.Store, names []string, limit int) ([]int, error) {
	counts := make([]int, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			info, err := store.GetCollectionInfo(gctx, name)
			if err != nil {
				return fmt.Errorf("count %q: %w", name, err)
			}
			counts[i] = info.ItemCount
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return counts, nil
}

// chunkIndices returns the indices to print: all chunks for n == 0, else chunk n (1-based)
func chunkIndices(chunks model.ChunkSet, n int) ([]int, error) {
	if n == 0 {
		indices := make([]int, chunks.Len())
		for i := range indices {
			indices[i] = i
		}
		return indices, nil
	}
	if !chunks.InRange(n - 1) {
		return nil, &chroma.ValidationError{
			Field:  "chunk",
			Value:  strconv.Itoa(n),
			Reason: fmt.Sprintf("collection has %d chunks", chunks.Len()),
		}
	}
	return []int{n - 1}, nil
}

// promptYes asks the yes/no delete question; anything but y or yes is no
func promptYes(r io.Reader, w io.Writer, collection string) bool {
	fmt.Fprintf(w, "Delete collection %q? This cannot be undone. [y/N]: ", collection)
	answer, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
