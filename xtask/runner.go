package xtask

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/shaderir/fixture"
	"github.com/gogpu/shaderir/valid"
)

// A commandRunner abstracts external tool execution so tests can record
// invocations without the tools installed.
type commandRunner interface {
	LookPath(name string) (string, error)

	// Run executes a command, feeding it stdin when non-nil and
	// discarding stdout. Stderr passes through for diagnostics.
	Run(ctx context.Context, stdin []byte, name string, args ...string) error

	// Output is Run with standard output captured and returned.
	Output(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error)
}

type systemRunner struct{}

func (systemRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (systemRunner) Run(ctx context.Context, stdin []byte, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	cmd.Stdout = io.Discard
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func (systemRunner) Output(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	cmd.Stderr = os.Stderr
	return cmd.Output()
}

// Runner executes the repository tasks: snapshot validation against the
// external shader toolchains, artifact cleanup, and the aggregate
// checks.
//
// Per-file failures are logged and collected rather than aborting the
// run, so a single broken snapshot does not hide the state of the rest.
type Runner struct {
	fs   afero.Fs
	exec commandRunner
	log  logrus.FieldLogger
	opts Options
}

// New returns a Runner operating on the real filesystem and PATH.
func New(opts Options, log logrus.FieldLogger) *Runner {
	return &Runner{
		fs:   afero.NewOsFs(),
		exec: systemRunner{},
		log:  log,
		opts: opts,
	}
}

// snapshots joins parts onto the snapshot output directory.
func (r *Runner) snapshots(parts ...string) string {
	return filepath.Join(append([]string{r.opts.Root, r.opts.Snapshots}, parts...)...)
}

var errValidation = errors.New("failed to validate one or more files, see above output for more details")

// report logs a colored PASS or FAIL line for one named step.
func (r *Runner) report(step string, err error) {
	if err != nil {
		r.log.Errorf("%s %s: %v", color.RedString("FAIL"), step, err)
		return
	}
	r.log.Infof("%s %s", color.GreenString("PASS"), step)
}

// ValidateIR runs handle validation over the built-in module corpus.
func (r *Runner) ValidateIR(ctx context.Context) error {
	failed := false
	for _, fx := range fixture.All() {
		r.log.Infof("Validating %s", fx.Name)
		if err := valid.ValidateModuleHandles(fx.Build()); err != nil {
			r.log.Errorf("%s: %v", fx.Name, err)
			failed = true
		}
	}
	if failed {
		return errValidation
	}
	return nil
}

// ValidateDot feeds every rendered graph under the dot snapshot
// directory to the Graphviz dot tool.
func (r *Runner) ValidateDot(ctx context.Context) error {
	dotTool, err := r.exec.LookPath("dot")
	if err != nil {
		return fmt.Errorf("dot not found in PATH: %w", err)
	}

	failed := &atomic.Bool{}
	files := r.listFiles(r.snapshots("dot"), []string{"*.dot"}, failed)

	g := &errgroup.Group{}
	g.SetLimit(r.opts.Jobs)
	for _, path := range files {
		g.Go(func() error {
			r.log.Infof("Validating %s", path)
			if err := r.exec.Run(ctx, nil, dotTool, path); err != nil {
				r.log.Errorf("%s: %v", path, err)
				failed.Store(true)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if failed.Load() {
		return errValidation
	}
	return nil
}

const spirvVersionPrefix = "; Version: "

// ValidateSpirv assembles every SPIR-V assembly snapshot with spirv-as
// and pipes the result through spirv-val.
func (r *Runner) ValidateSpirv(ctx context.Context) error {
	spirvAs, err := r.exec.LookPath("spirv-as")
	if err != nil {
		return fmt.Errorf("spirv-as not found in PATH: %w", err)
	}
	spirvVal, err := r.exec.LookPath("spirv-val")
	if err != nil {
		return fmt.Errorf("spirv-val not found in PATH: %w", err)
	}

	failed := &atomic.Bool{}
	files := r.listFiles(r.snapshots("spv"), []string{"*.spvasm"}, failed)

	g := &errgroup.Group{}
	g.SetLimit(r.opts.Jobs)
	for _, path := range files {
		g.Go(func() error {
			r.log.Infof("Validating %s", path)
			if err := r.validateSpirvFile(ctx, spirvAs, spirvVal, path); err != nil {
				r.log.Errorf("%s: %v", path, err)
				failed.Store(true)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if failed.Load() {
		return errValidation
	}
	return nil
}

func (r *Runner) validateSpirvFile(ctx context.Context, spirvAs, spirvVal, path string) error {
	data, err := afero.ReadFile(r.fs, path)
	if err != nil {
		return err
	}

	// The disassembler records the module's target version on the
	// second line, e.g. "; Version: 1.1". Reassemble for that exact
	// environment so version-gated instructions stay valid.
	version, ok := headerSuffix(data, 1, spirvVersionPrefix)
	if !ok {
		return fmt.Errorf("no %q header found in %s", spirvVersionPrefix, path)
	}

	assembled, err := r.exec.Output(ctx, nil, spirvAs, path, "--target-env", "spv"+version, "-o", "-")
	if err != nil {
		return err
	}
	return r.exec.Run(ctx, assembled, spirvVal)
}

// headerSuffix returns line number lineIdx of data with prefix stripped,
// reporting whether that line exists and carries the prefix.
func headerSuffix(data []byte, lineIdx int, prefix string) (string, bool) {
	lines := strings.SplitN(string(data), "\n", lineIdx+2)
	if len(lines) <= lineIdx || !strings.HasPrefix(lines[lineIdx], prefix) {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(lines[lineIdx], prefix)), true
}

const metalLanguagePrefix = "// language: "

// ValidateMetal compiles every MSL snapshot with the Metal compiler
// from the macOS SDK.
func (r *Runner) ValidateMetal(ctx context.Context) error {
	xcrun, err := r.exec.LookPath("xcrun")
	if err != nil {
		return fmt.Errorf("xcrun not found in PATH: %w", err)
	}

	failed := &atomic.Bool{}
	files := r.listFiles(r.snapshots("msl"), []string{"*.msl"}, failed)

	g := &errgroup.Group{}
	g.SetLimit(r.opts.Jobs)
	for _, path := range files {
		g.Go(func() error {
			r.log.Infof("Validating %s", path)
			if err := r.validateMetalFile(ctx, xcrun, path); err != nil {
				r.log.Errorf("%s: %v", path, err)
				failed.Store(true)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if failed.Load() {
		return errValidation
	}
	return nil
}

func (r *Runner) validateMetalFile(ctx context.Context, xcrun, path string) error {
	data, err := afero.ReadFile(r.fs, path)
	if err != nil {
		return err
	}

	// The writer stamps the language version on the first line, e.g.
	// "// language: metal1.0".
	language, ok := headerSuffix(data, 0, metalLanguagePrefix)
	if !ok {
		return fmt.Errorf("no %q header found in %s", metalLanguagePrefix, path)
	}

	return r.exec.Run(ctx, data, xcrun,
		"-sdk", "macosx", "metal",
		"-mmacosx-version-min=10.11",
		"-std=macos-"+language,
		"-x", "metal", "-",
		"-o", os.DevNull,
	)
}

// ValidateGlsl compiles every GLSL snapshot with glslangValidator,
// picking the shader stage from the file name.
func (r *Runner) ValidateGlsl(ctx context.Context) error {
	glslang, err := r.exec.LookPath("glslangValidator")
	if err != nil {
		return fmt.Errorf("glslangValidator not found in PATH: %w", err)
	}

	stages := []struct {
		pattern string
		stage   string
	}{
		{"*.Vertex.glsl", "vert"},
		{"*.Fragment.glsl", "frag"},
		{"*.Compute.glsl", "comp"},
	}

	failed := &atomic.Bool{}
	g := &errgroup.Group{}
	g.SetLimit(r.opts.Jobs)
	for _, s := range stages {
		files := r.listFiles(r.snapshots("glsl"), []string{s.pattern}, failed)
		for _, path := range files {
			g.Go(func() error {
				r.log.Infof("Validating %s", path)
				if err := r.validateGlslFile(ctx, glslang, s.stage, path); err != nil {
					r.log.Errorf("%s: %v", path, err)
					failed.Store(true)
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if failed.Load() {
		return errValidation
	}
	return nil
}

func (r *Runner) validateGlslFile(ctx context.Context, glslang, stage, path string) error {
	data, err := afero.ReadFile(r.fs, path)
	if err != nil {
		return err
	}
	return r.exec.Run(ctx, data, glslang, "--stdin", "-S", stage)
}

// HlslCompiler selects which Microsoft shader compiler validates the
// generated HLSL.
type HlslCompiler uint8

const (
	// HlslDXC is the modern DirectX shader compiler.
	HlslDXC HlslCompiler = iota
	// HlslFXC is the legacy effect compiler. It only understands shader
	// models below 6.
	HlslFXC
)

func (c HlslCompiler) String() string {
	switch c {
	case HlslDXC:
		return "dxc"
	case HlslFXC:
		return "fxc"
	default:
		return fmt.Sprintf("HlslCompiler(%d)", uint8(c))
	}
}

// ParseHlslCompiler maps a command line name to an HlslCompiler.
func ParseHlslCompiler(name string) (HlslCompiler, error) {
	switch name {
	case "dxc":
		return HlslDXC, nil
	case "fxc":
		return HlslFXC, nil
	default:
		return 0, fmt.Errorf("unknown HLSL compiler %q, expected dxc or fxc", name)
	}
}

// ValidateHlsl compiles every HLSL snapshot once per entry point listed
// in its TOML sidecar.
func (r *Runner) ValidateHlsl(ctx context.Context, compiler HlslCompiler) error {
	bin, err := r.exec.LookPath(compiler.String())
	if err != nil {
		return fmt.Errorf("%s not found in PATH: %w", compiler, err)
	}

	failed := &atomic.Bool{}
	files := r.listFiles(r.snapshots("hlsl"), []string{"*.hlsl"}, failed)

	g := &errgroup.Group{}
	g.SetLimit(r.opts.Jobs)
	for _, path := range files {
		g.Go(func() error {
			r.log.Infof("Validating %s", path)
			if err := r.validateHlslFile(ctx, compiler, bin, path); err != nil {
				r.log.Errorf("%s: %v", path, err)
				failed.Store(true)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if failed.Load() {
		return errValidation
	}
	return nil
}

func (r *Runner) validateHlslFile(ctx context.Context, compiler HlslCompiler, bin, path string) error {
	cfg, err := LoadConfig(r.fs, strings.TrimSuffix(path, ".hlsl")+".toml")
	if err != nil {
		return err
	}

	for _, item := range cfg.All() {
		args := []string{path, "-T", item.TargetProfile, "-E", item.EntryPoint}
		switch compiler {
		case HlslDXC:
			args = append(args, "-Wno-parentheses-equality", "-Zi", "-Qembed_debug", "-Od")
		case HlslFXC:
			_, major, _, err := parseTargetProfile(item.TargetProfile)
			if err != nil {
				return fmt.Errorf("%w in file %s", err, path)
			}
			if major >= 6 {
				r.log.Debugf("skipping entry point %q: profile %q requires dxc", item.EntryPoint, item.TargetProfile)
				continue
			}
			args = append(args, "-Zi", "-Od")
		}
		if err := r.exec.Run(ctx, nil, bin, args...); err != nil {
			return fmt.Errorf("failed to validate entry point %q with profile %q: %w", item.EntryPoint, item.TargetProfile, err)
		}
	}
	return nil
}

// parseTargetProfile splits a profile such as "vs_5_1" into its shader
// model and version numbers. Models may themselves contain underscores,
// so the version is taken from the last two segments.
func parseTargetProfile(profile string) (string, int, int, error) {
	parts := strings.Split(profile, "_")
	if len(parts) >= 3 {
		major, majErr := strconv.Atoi(parts[len(parts)-2])
		minor, minErr := strconv.Atoi(parts[len(parts)-1])
		if majErr == nil && minErr == nil {
			return strings.Join(parts[:len(parts)-2], "_"), major, minor, nil
		}
	}
	return "", 0, 0, fmt.Errorf("expected target profile of the form `{model}_{major}_{minor}`, found invalid target profile %q", profile)
}

// cleanExtensions are the build artifacts external shader tools leave
// behind in the repository root.
var cleanExtensions = []string{"metal", "air", "metallib", "vert", "frag", "comp", "spv"}

// Clean removes compiled shader artifacts from the repository root.
func (r *Runner) Clean() error {
	failed := false
	for _, ext := range cleanExtensions {
		pattern := filepath.Join(r.opts.Root, "*."+ext)
		matches, err := afero.Glob(r.fs, pattern)
		if err != nil {
			r.log.Errorf("%s: %v", pattern, err)
			failed = true
			continue
		}
		for _, path := range matches {
			if err := r.fs.Remove(path); err != nil {
				r.log.Errorf("%s: %v", path, err)
				failed = true
			}
		}
	}
	if failed {
		return errors.New("failed to clean one or more files, see above output for more details")
	}
	return nil
}

// Bench runs the benchmark suite and stores its report under the
// snapshot directory. With clean set, the stored reports are removed
// instead.
func (r *Runner) Bench(ctx context.Context, clean bool) error {
	dir := r.snapshots("bench")
	if clean {
		r.log.Infof("removing %s", dir)
		return r.fs.RemoveAll(dir)
	}

	goTool, err := r.exec.LookPath("go")
	if err != nil {
		return fmt.Errorf("go not found in PATH: %w", err)
	}
	out, err := r.exec.Output(ctx, nil, goTool, "test", "-run=^$", "-bench=.", "-benchmem", "./...")
	if err != nil {
		return fmt.Errorf("benchmarks failed: %w", err)
	}

	if err := r.fs.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	report := filepath.Join(dir, "bench.txt")
	if err := afero.WriteFile(r.fs, report, out, 0o644); err != nil {
		return err
	}
	r.log.Infof("wrote %s", report)
	return nil
}

// All runs the whole verification suite: formatting, vet, and tests.
func (r *Runner) All(ctx context.Context) error {
	goTool, err := r.exec.LookPath("go")
	if err != nil {
		return fmt.Errorf("go not found in PATH: %w", err)
	}
	gofmtTool, err := r.exec.LookPath("gofmt")
	if err != nil {
		return fmt.Errorf("gofmt not found in PATH: %w", err)
	}

	steps := []struct {
		name string
		run  func() error
	}{
		{"gofmt", func() error {
			out, err := r.exec.Output(ctx, nil, gofmtTool, "-l", ".")
			if err != nil {
				return err
			}
			if unformatted := strings.TrimSpace(string(out)); unformatted != "" {
				return fmt.Errorf("unformatted files:\n%s", unformatted)
			}
			return nil
		}},
		{"go vet", func() error {
			return r.exec.Run(ctx, nil, goTool, "vet", "./...")
		}},
		{"go test", func() error {
			out, err := r.exec.Output(ctx, nil, goTool, "test", "./...")
			if err != nil {
				return fmt.Errorf("%w\n%s", err, bytes.TrimSpace(out))
			}
			return nil
		}},
	}

	failed := false
	for _, step := range steps {
		err := step.run()
		r.report(step.name, err)
		if err != nil {
			failed = true
		}
	}
	if failed {
		return errors.New("one or more checks failed, see above output for more details")
	}
	return nil
}
