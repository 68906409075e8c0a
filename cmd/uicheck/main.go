package main

import (
	"fmt"
	"log"
	"os"

	"github.com/chmdznr/oss-component-checker/internal/db"
	"github.com/chmdznr/oss-component-checker/internal/logging"
	"github.com/chmdznr/oss-component-checker/pkg/version"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var logger = zap.NewNop()

func main() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"v"},
		Usage:   "print the version",
	}

	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:                 "uicheck",
		Usage:                "Verify that expected UI component files are present",
		Version:              version.Version,
		EnableBashCompletion: true,
		ArgsUsage:            "[FILE...]",
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging on stderr",
			},
		}, checkFlags()...),
		Action: runCheck,
		Before: func(c *cli.Context) error {
			l, err := logging.New(c.Bool("verbose"))
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			logger = l
			return nil
		},
		After: func(c *cli.Context) error {
			// Sync on a terminal stderr returns EINVAL on some platforms.
			_ = logger.Sync()
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "version",
				Usage: "Print detailed version information",
				Action: func(c *cli.Context) error {
					fmt.Fprintf(c.App.Writer, "Version:    %s\n", version.Version)
					fmt.Fprintf(c.App.Writer, "Git commit: %s\n", version.GitCommit)
					fmt.Fprintf(c.App.Writer, "Built:      %s\n", version.BuildTime)
					return nil
				},
			},
			{
				Name:      "check",
				Usage:     "Report expected files missing from a directory",
				ArgsUsage: "[FILE...]",
				Flags:     checkFlags(),
				Action:    runCheck,
			},
			{
				Name:  "presets",
				Usage: "List built-in file presets",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "files",
						Usage: "Also list each preset's files",
					},
				},
				Action: listPresets,
			},
			{
				Name:  "history",
				Usage: "Show recorded runs",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Check name",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to show",
						Value: 10,
					},
					dbFlag(),
				},
				Action: showHistory,
			},
			{
				Name:  "status",
				Usage: "Show aggregate results for a check",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Check name",
						Required: true,
					},
					dbFlag(),
				},
				Action: showStatus,
			},
		},
	}
}

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "db",
		Usage: "Path to the run history database",
		Value: db.DefaultPath,
	}
}

// checkFlags is shared by the check command and the default action, so
// "uicheck --dir ui a.tsx" and "uicheck check --dir ui a.tsx" behave alike.
func checkFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML manifest describing the check",
		},
		&cli.StringFlag{
			Name:    "dir",
			Aliases: []string{"d"},
			Usage:   "Directory that should contain the files",
		},
		&cli.StringSliceFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   "Expected file name (repeatable)",
		},
		&cli.StringFlag{
			Name:    "list",
			Aliases: []string{"l"},
			Usage:   "File with one expected name per line, or a CSV whose first column is the name",
		},
		&cli.StringFlag{
			Name:  "preset",
			Usage: "Built-in list of expected files (see 'uicheck presets')",
		},
		&cli.StringFlag{
			Name:  "name",
			Usage: "Name used to record the run (defaults to the directory)",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Number of parallel workers for probing files",
			Value: 1,
		},
		&cli.BoolFlag{
			Name:  "progress",
			Usage: "Show a progress bar on stderr",
		},
		&cli.BoolFlag{
			Name:  "summary",
			Usage: "Print a summary line after the report",
		},
		&cli.StringFlag{
			Name:  "format",
			Usage: "Output format: text or json",
			Value: formatText,
		},
		&cli.BoolFlag{
			Name:  "fail-on-missing",
			Usage: "Exit with status 1 when any file is missing",
		},
		&cli.BoolFlag{
			Name:  "remote",
			Usage: "Check the manifest's object storage location instead of the directory",
		},
		&cli.StringFlag{
			Name:    "access-key",
			Usage:   "Object storage access key",
			EnvVars: []string{"MINIO_ACCESS_KEY"},
		},
		&cli.StringFlag{
			Name:    "secret-key",
			Usage:   "Object storage secret key",
			EnvVars: []string{"MINIO_SECRET_KEY"},
		},
		&cli.BoolFlag{
			Name:  "record",
			Usage: "Record the run in the history database",
		},
		dbFlag(),
	}
}
