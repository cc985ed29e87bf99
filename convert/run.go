package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"

	"mwrender/archive"
	"mwrender/bundle"
	"mwrender/config"
	"mwrender/misc"
	"mwrender/state"
)

// StdoutName is destination which sends text output to standard output.
const StdoutName = "-"

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("convert")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	src, err = filepath.Abs(src)
	if err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst != StdoutName {
		if dst, err = filepath.Abs(dst); err != nil {
			return err
		}
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Mailformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	cfg := &env.Cfg.Render
	if cmd.IsSet("to") {
		format, err := config.ParseOutputFmt(cmd.String("to"))
		if err != nil {
			log.Warn("Unknown output format requested, switching to text", zap.Error(err))
			format = config.OutputFmtText
		}
		cfg.Format = format
	}
	if cmd.IsSet("nowrap") {
		cfg.NoWrap = cmd.Bool("nowrap")
	}
	if cmd.IsSet("norefs") {
		cfg.NoRefs = cmd.Bool("norefs")
	}
	if cmd.IsSet("columns") {
		if n := int(cmd.Int("columns")); n >= 30 {
			cfg.Columns = n
		} else {
			log.Warn("Requested line width is too small, ignoring", zap.Int("columns", n))
		}
	}
	if cmd.IsSet("lang") {
		cfg.Language = cmd.String("lang")
	}

	env.Overwrite = cmd.Bool("overwrite")

	// Since zip "standard" does not define file name encoding we may need to
	// force archaic code page for old archives
	cp := cmd.String("force-zip-cp")
	if len(cp) > 0 {
		env.CodePage, err = ianaindex.IANA.Encoding(cp)
		if err != nil {
			log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cp), zap.Error(err))
			env.CodePage = nil
		} else {
			n, _ := ianaindex.IANA.Name(env.CodePage)
			log.Debug("Forcefully converting all non UTF-8 file names in archives", zap.String("charset", n))
		}
	}

	if dst == StdoutName && cfg.Format != config.OutputFmtText {
		return fmt.Errorf("%s output could not be sent to standard output, destination directory is required", cfg.Format)
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.Stringer("format", cfg.Format))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	var out Output
	if dst == StdoutName {
		out = streamOutput{w: os.Stdout}
	} else {
		out = newDirOutput(dst, env.Overwrite, log)
	}
	return process(ctx, src, out, env, log)
}

// process opens collection bundle, unpacking it first when necessary, and
// renders it. It is independent of CLI framework.
func process(ctx context.Context, src string, out Output, env *state.LocalEnv, log *zap.Logger) (err error) {
	fi, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("input source was not found: %w", err)
	}

	dir := src
	if !fi.IsDir() {
		var isZip bool
		if isZip, err = isArchiveFile(src); err != nil {
			// checking format - but cannot open target file
			return fmt.Errorf("unable to check archive type: %w", err)
		}
		if !isZip {
			return fmt.Errorf("input was not recognized as collection bundle (%s)", src)
		}
		if dir, err = stage(src, env, log); err != nil {
			return err
		}
		if env.Rpt == nil {
			defer func() {
				err = multierr.Append(err, os.RemoveAll(dir))
			}()
		}
	}

	b, err := bundle.Open(dir, log.Named("bundle"))
	if err != nil {
		return fmt.Errorf("unable to open collection bundle: %w", err)
	}
	defer func() {
		err = multierr.Append(err, b.Close())
	}()

	if err := Generate(ctx, b.Metabook(), b, out, &env.Cfg.Render, env.Rpt, log); err != nil {
		return fmt.Errorf("unable to render collection: %w", err)
	}

	// Store conversion results for debugging
	if d, ok := out.(*dirOutput); ok && env.Rpt != nil {
		for _, path := range d.Created() {
			env.Rpt.Store(fmt.Sprintf("result-%s/%s", b.Metabook().ID, filepath.Base(path)), path)
		}
	}
	return nil
}

// stage unpacks bundle archive into temporary directory. When debug report
// is requested directory is kept and put into the report.
func stage(path string, env *state.LocalEnv, log *zap.Logger) (string, error) {
	dir, err := os.MkdirTemp("", misc.GetAppName()+"-")
	if err != nil {
		return "", fmt.Errorf("unable to create staging directory: %w", err)
	}

	n, err := archive.Extract(path, dir, env.CodePage)
	if err != nil {
		return "", multierr.Append(fmt.Errorf("unable to unpack bundle: %w", err), os.RemoveAll(dir))
	}
	log.Debug("Bundle unpacked", zap.String("archive", path), zap.String("dir", dir), zap.Int("files", n))

	env.Rpt.StoreTemp("staging", dir)
	return dir, nil
}
