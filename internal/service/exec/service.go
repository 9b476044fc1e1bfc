package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// Output line types mirror the console taxonomy the terminal renders.
const (
	TypeLog     = "log"
	TypeError   = "error"
	TypeWarn    = "warn"
	TypeInfo    = "info"
	TypeSuccess = "success"
)

const (
	LanguageJavaScript = "javascript"
	LanguagePython     = "python"
)

// OutputLine is one rendered line of execution output.
type OutputLine struct {
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Service runs user code through an OS interpreter with a deadline.
// Every failure mode is converted into error-typed output lines; the
// caller never sees an error value.
type Service struct {
	timeout      time.Duration
	interpreters map[string]*interpreter
}

// interpreter lazily resolves the language binary. The sync.Once
// guarantees at most one concurrent resolution; later callers block on
// it and observe the finished result.
type interpreter struct {
	bin  string
	once sync.Once
	path string
	err  error
}

func (i *interpreter) resolve() (string, error) {
	i.once.Do(func() {
		i.path, i.err = exec.LookPath(i.bin)
		if i.err == nil {
			log.Printf("[exec] resolved %s -> %s", i.bin, i.path)
		}
	})
	return i.path, i.err
}

// NewService creates the execution collaborator.
func NewService(timeout time.Duration, nodeBin, pythonBin string) *Service {
	return &Service{
		timeout: timeout,
		interpreters: map[string]*interpreter{
			LanguageJavaScript: {bin: nodeBin},
			LanguagePython:     {bin: pythonBin},
		},
	}
}

// Supported reports whether language names a known interpreter.
func Supported(language string) bool {
	return language == LanguageJavaScript || language == LanguagePython
}

// Execute runs code under the configured timeout and returns the
// captured output lines.
func (s *Service) Execute(ctx context.Context, code, language string) []OutputLine {
	interp, ok := s.interpreters[language]
	if !ok {
		return []OutputLine{errorLine(fmt.Sprintf("Unsupported language: %s", language))}
	}

	path, err := interp.resolve()
	if err != nil {
		return []OutputLine{errorLine(fmt.Sprintf("%s interpreter unavailable: %v", language, err))}
	}

	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// Both node and python3 accept "-" to read the program from stdin,
	// which avoids argv length limits and shell quoting.
	cmd := exec.CommandContext(runCtx, path, "-")
	cmd.Stdin = strings.NewReader(code)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	outputs := make([]OutputLine, 0, 8)
	for _, line := range splitLines(stdout.String()) {
		outputs = append(outputs, OutputLine{Type: TypeLog, Content: line, Timestamp: time.Now().UTC()})
	}
	for _, line := range splitLines(stderr.String()) {
		outputs = append(outputs, OutputLine{Type: TypeError, Content: line, Timestamp: time.Now().UTC()})
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		outputs = append(outputs, errorLine(fmt.Sprintf("Execution timed out after %ds", int(s.timeout.Seconds()))))
		return outputs
	}

	if runErr != nil {
		if len(stderr.Bytes()) == 0 {
			outputs = append(outputs, errorLine(fmt.Sprintf("Execution failed: %v", runErr)))
		}
		return outputs
	}

	if len(outputs) == 0 {
		outputs = append(outputs, OutputLine{
			Type:      TypeInfo,
			Content:   fmt.Sprintf("Code executed successfully in %dms (no output)", elapsed.Milliseconds()),
			Timestamp: time.Now().UTC(),
		})
		return outputs
	}

	outputs = append(outputs, OutputLine{
		Type:      TypeSuccess,
		Content:   fmt.Sprintf("✓ Execution completed in %dms", elapsed.Milliseconds()),
		Timestamp: time.Now().UTC(),
	})
	return outputs
}

func errorLine(content string) OutputLine {
	return OutputLine{Type: TypeError, Content: content, Timestamp: time.Now().UTC()}
}

// splitLines breaks captured process output into non-empty lines.
func splitLines(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.TrimRight(raw, "\n")
	if raw == "" {
		return nil
	}

	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
