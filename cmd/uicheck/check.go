package main

import (
	"fmt"
	"os"
	"time"

	"github.com/chmdznr/oss-component-checker/internal/check"
	"github.com/chmdznr/oss-component-checker/internal/db"
	"github.com/chmdznr/oss-component-checker/internal/manifest"
	"github.com/chmdznr/oss-component-checker/internal/remote"
	"github.com/chmdznr/oss-component-checker/internal/report"
	"github.com/chmdznr/oss-component-checker/pkg/models"
	"github.com/cheggaaa/pb/v3"
	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const (
	formatText = "text"
	formatJSON = "json"
)

// runCheck probes every expected file and prints the report.
//
// Missing files are not an error unless --fail-on-missing is set, in which
// case the process exits with status 1.
func runCheck(c *cli.Context) error {
	format := c.String("format")
	if format != formatText && format != formatJSON {
		return fmt.Errorf("unknown format %q: want %s or %s", format, formatText, formatJSON)
	}

	m, err := buildManifest(c)
	if err != nil {
		return err
	}
	useRemote := c.Bool("remote")
	if err := m.Validate(useRemote); err != nil {
		return err
	}
	expected, err := m.Expected()
	if err != nil {
		return err
	}

	prober, location, backend, err := newProber(c, m, useRemote)
	if err != nil {
		return err
	}
	if m.Name == "" {
		m.Name = location
	}

	config := check.CheckerConfig{NumWorkers: c.Int("workers")}
	var bar *pb.ProgressBar
	if c.Bool("progress") && len(expected) > 0 {
		bar = pb.New(len(expected))
		bar.SetWriter(c.App.ErrWriter)
		bar.Start()
		config.OnProbe = func(string, bool) { bar.Increment() }
	}

	logger.Debug("checking files",
		zap.String("name", m.Name),
		zap.String("location", location),
		zap.Int("expected", len(expected)),
		zap.Int("workers", config.NumWorkers))

	checkedAt := time.Now()
	result, err := check.NewChecker(prober, &config).Run(c.Context, expected)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	switch format {
	case formatJSON:
		err = report.WriteJSON(c.App.Writer, m.Name, location, checkedAt, result)
	default:
		colored := !color.NoColor && c.App.Writer == os.Stdout
		printer := report.NewPrinter(c.App.Writer, colored)
		err = printer.Missing(result.Missing)
		if err == nil && c.Bool("summary") {
			err = printer.Summary(result)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if c.Bool("record") {
		if err := recordRun(c.String("db"), &models.Run{
			Name:      m.Name,
			BaseDir:   location,
			Backend:   backend,
			CheckedAt: checkedAt,
			Expected:  len(expected),
			Missing:   result.Missing,
			Duration:  result.Elapsed,
		}); err != nil {
			return err
		}
	}

	if c.Bool("fail-on-missing") && !result.Clean() {
		return cli.Exit(fmt.Sprintf("%d of %d expected files missing", len(result.Missing), len(expected)), 1)
	}
	return nil
}

// buildManifest merges the manifest file with command line inputs. Flags
// override manifest values; list file entries, --file flags and arguments
// are appended in that order. With no source of names at all the default
// preset is used.
func buildManifest(c *cli.Context) (*manifest.Manifest, error) {
	m := &manifest.Manifest{}
	named := false
	if path := c.String("config"); path != "" {
		loaded, err := manifest.Load(path)
		if err != nil {
			return nil, err
		}
		m = loaded
		named = true
	}

	if c.IsSet("dir") {
		m.Dir = c.String("dir")
	}
	if c.IsSet("preset") {
		m.Preset = c.String("preset")
		named = true
	}
	if c.IsSet("name") {
		m.Name = c.String("name")
	}

	if path := c.String("list"); path != "" {
		names, err := manifest.ReadList(path)
		if err != nil {
			return nil, err
		}
		m.Files = append(m.Files, names...)
		named = true
	}
	m.Files = append(m.Files, c.StringSlice("file")...)
	m.Files = append(m.Files, c.Args().Slice()...)

	if !named && len(m.Files) == 0 {
		m.Preset = manifest.DefaultPreset
	}

	if m.Remote != nil {
		if c.IsSet("access-key") {
			m.Remote.AccessKey = c.String("access-key")
		}
		if c.IsSet("secret-key") {
			m.Remote.SecretKey = c.String("secret-key")
		}
	}
	return m, nil
}

func newProber(c *cli.Context, m *manifest.Manifest, useRemote bool) (check.Prober, string, string, error) {
	if useRemote {
		prober, err := remote.NewMinioProber(remote.Config{
			Endpoint:  m.Remote.Endpoint,
			Bucket:    m.Remote.Bucket,
			Prefix:    m.Remote.Prefix,
			Region:    m.Remote.Region,
			AccessKey: m.Remote.AccessKey,
			SecretKey: m.Remote.SecretKey,
			Secure:    m.Remote.UseTLS(),
		}, logger)
		if err != nil {
			return nil, "", "", err
		}
		return prober, prober.Location(), "minio", nil
	}

	prober, err := check.NewDirProber(afero.NewOsFs(), m.Dir)
	if err != nil {
		return nil, "", "", err
	}
	return prober, m.Dir, "local", nil
}

func recordRun(path string, run *models.Run) error {
	store, err := db.New(path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	id, err := store.SaveRun(run)
	if err != nil {
		return err
	}
	logger.Debug("run recorded", zap.Int64("id", id), zap.String("db", path))
	return nil
}
