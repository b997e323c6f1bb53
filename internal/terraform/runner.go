package terraform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"sort"
)

// Runner executes terraform in a working directory.
type Runner struct {
	dir      string
	bin      string
	progress io.Writer // terraform's own output; nil discards it
}

// NewRunner returns a Runner for the configuration in dir. Terraform
// progress output is streamed to progress when non-nil.
func NewRunner(dir string, progress io.Writer) *Runner {
	return &Runner{dir: dir, bin: "terraform", progress: progress}
}

// Init runs 'terraform init'.
func (r *Runner) Init(ctx context.Context) error {
	_, err := r.run(ctx, "init", "-input=false")
	return err
}

// Apply runs 'terraform apply' with the given variables.
func (r *Runner) Apply(ctx context.Context, vars map[string]string) error {
	args := []string{"apply", "-input=false", "-auto-approve"}
	// Stable ordering keeps runs reproducible and testable.
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "-var", fmt.Sprintf("%s=%s", k, vars[k]))
	}
	_, err := r.run(ctx, args...)
	return err
}

// output mirrors a single entry of 'terraform output -json'.
type output struct {
	Value json.RawMessage `json:"value"`
}

// Outputs runs 'terraform output -json' and returns the raw output values.
func (r *Runner) Outputs(ctx context.Context) (map[string]json.RawMessage, error) {
	stdout, err := r.run(ctx, "output", "-json")
	if err != nil {
		return nil, err
	}
	var outputs map[string]output
	if err := json.Unmarshal(stdout, &outputs); err != nil {
		return nil, fmt.Errorf("parse terraform outputs: %w", err)
	}
	values := make(map[string]json.RawMessage, len(outputs))
	for key, out := range outputs {
		values[key] = out.Value
	}
	return values, nil
}

// StringOutput decodes a string-valued output.
func StringOutput(outputs map[string]json.RawMessage, key string) (string, error) {
	raw, ok := outputs[key]
	if !ok {
		return "", fmt.Errorf("terraform output %q missing", key)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("terraform output %q is not a string: %w", key, err)
	}
	return s, nil
}

// StringSliceOutput decodes a list-of-strings output.
func StringSliceOutput(outputs map[string]json.RawMessage, key string) ([]string, error) {
	raw, ok := outputs[key]
	if !ok {
		return nil, fmt.Errorf("terraform output %q missing", key)
	}
	var s []string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("terraform output %q is not a string list: %w", key, err)
	}
	return s, nil
}

func (r *Runner) run(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, r.bin, args...)
	cmd.Dir = r.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	if r.progress != nil && args[0] != "output" {
		cmd.Stdout = io.MultiWriter(&stdout, r.progress)
	}
	cmd.Stderr = &stderr
	if r.progress != nil {
		cmd.Stderr = io.MultiWriter(&stderr, r.progress)
	}

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("terraform %s: %w: %s", args[0], err, stderr.String())
	}
	return stdout.Bytes(), nil
}
