package transform

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/creack/pty"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Transformer = (*Command)(nil)

// Command runs the external tool configured for an asset kind.
// The tool runs under a pseudo-terminal so it keeps its interactive
// progress output, which is streamed to the request's Log writer.
type Command struct {
	environ func() []string
}

// NewCommand creates a Command transform inheriting the allow-listed parts of the process environment.
func NewCommand() *Command {
	return &Command{environ: os.Environ}
}

// Transform expands the rule's placeholders and runs the command.
// The command must create the output file; its size is reported as BytesOut.
func (c *Command) Transform(ctx context.Context, req domain.TransformRequest) (domain.TransformResult, error) {
	rule, ok := req.Config.Rule(req.Kind)
	if !ok {
		return domain.TransformResult{}, zerr.With(zerr.Wrap(domain.ErrEmptyCommand, "no command for "+req.Kind.String()), "path", req.Input)
	}

	info, err := os.Stat(req.Input)
	if err != nil {
		return domain.TransformResult{}, zerr.With(zerr.Wrap(err, domain.ErrPathStatFailed.Error()), "path", req.Input)
	}

	output := OutputPath(req.Output, rule)
	if err := os.MkdirAll(filepath.Dir(output), domain.DirPerm); err != nil {
		return domain.TransformResult{}, zerr.With(zerr.Wrap(err, domain.ErrTransformFailed.Error()), "path", output)
	}

	argv := expand(rule.Command, placeholders(req, output))

	log := req.Log
	if log == nil {
		log = io.Discard
	}

	if err := c.run(ctx, argv, filepath.Dir(req.Input), log); err != nil {
		return domain.TransformResult{}, zerr.With(err, "path", req.Input)
	}

	out, err := os.Stat(output)
	if err != nil {
		err = zerr.Wrap(domain.ErrTransformFailed, "command did not produce its output")
		return domain.TransformResult{}, zerr.With(zerr.With(err, "path", req.Input), "output", output)
	}

	return domain.TransformResult{
		BytesIn:    uint64(info.Size()), //nolint:gosec // file sizes are never negative
		BytesOut:   uint64(out.Size()),  //nolint:gosec // file sizes are never negative
		OutputPath: output,
	}, nil
}

func (c *Command) run(ctx context.Context, argv []string, dir string, log io.Writer) error {
	env := filterEnvironment(c.environ())

	name := argv[0]
	executable := name
	if !filepath.IsAbs(name) {
		if lp, err := lookPath(name, env); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, argv[1:]...) //nolint:gosec // user provided command
	cmd.Args[0] = name
	cmd.Dir = dir
	cmd.Env = env

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to start pty"), "command", name)
	}

	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		// The read side reports EIO once the child exits; everything before it was delivered.
		lw := &lineWriter{w: log}
		_, _ = io.Copy(lw, ptmx)
		_ = lw.Flush()
	}()

	waitErr := cmd.Wait()
	<-ioDone
	_ = ptmx.Close()

	if waitErr != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		err := zerr.Wrap(domain.ErrTransformFailed, "command "+name+" failed")
		return zerr.With(zerr.With(err, "exit_code", exitCode), "cause", waitErr.Error())
	}
	return nil
}

// OutputPath applies the rule's extension to the mirrored output path.
func OutputPath(output string, rule domain.TransformRule) string {
	if rule.Extension == "" {
		return output
	}
	return strings.TrimSuffix(output, filepath.Ext(output)) + rule.Extension
}

func placeholders(req domain.TransformRequest, output string) *strings.Replacer {
	var quality, maxSize, format string
	switch req.Kind {
	case domain.KindImage:
		quality = strconv.Itoa(int(req.Config.Image.Quality))
		maxSize = strconv.FormatUint(uint64(req.Config.Image.MaxSize), 10)
		format = req.Config.Image.Format
	case domain.KindAudio:
		quality = strconv.Itoa(int(req.Config.Audio.Quality))
		format = req.Config.Audio.Format
	case domain.KindModel:
		format = req.Config.Model.Format
	}

	return strings.NewReplacer(
		"{input}", req.Input,
		"{output}", output,
		"{quality}", quality,
		"{max_size}", maxSize,
		"{format}", format,
	)
}

func expand(command []string, r *strings.Replacer) []string {
	argv := make([]string, len(command))
	for i, arg := range command {
		argv[i] = r.Replace(arg)
	}
	return argv
}

// lineWriter strips the carriage returns a pty adds before each newline.
// A read may end between the two bytes, so a trailing \r is held back until
// the next write shows whether a \n follows.
type lineWriter struct {
	w         io.Writer
	pendingCR bool
}

func (l *lineWriter) Write(p []byte) (int, error) {
	buf := make([]byte, 0, len(p)+1)
	if l.pendingCR {
		buf = append(buf, '\r')
		l.pendingCR = false
	}
	buf = append(buf, p...)
	if n := len(buf); n > 0 && buf[n-1] == '\r' {
		l.pendingCR = true
		buf = buf[:n-1]
	}

	buf = bytes.ReplaceAll(buf, []byte("\r\n"), []byte("\n"))
	if len(buf) > 0 {
		if _, err := l.w.Write(buf); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

// Flush writes a carriage return still held back at the end of the stream.
func (l *lineWriter) Flush() error {
	if !l.pendingCR {
		return nil
	}
	l.pendingCR = false
	_, err := l.w.Write([]byte{'\r'})
	return err
}

// allowListedEnvVars are inherited by transform commands. Everything else is dropped
// so a build does not depend on the invoking shell.
var allowListedEnvVars = map[string]struct{}{
	"HOME":   {},
	"LANG":   {},
	"PATH":   {},
	"TERM":   {},
	"TMPDIR": {},
	"USER":   {},
}

func filterEnvironment(sysEnv []string) []string {
	env := make([]string, 0, len(allowListedEnvVars))
	for _, entry := range sysEnv {
		k, _, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if _, allowed := allowListedEnvVars[k]; allowed {
			env = append(env, entry)
		}
	}
	return env
}

// lookPath searches the PATH found in env rather than the process environment.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if v, ok := strings.CutPrefix(e, "PATH="); ok {
			path = v
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if d, err := os.Stat(candidate); err == nil && !d.IsDir() && d.Mode()&0o111 != 0 {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}
