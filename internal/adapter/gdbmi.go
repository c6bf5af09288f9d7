package adapter

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/proplens/proplens/internal/logger"
)

// GDBHost drives a live gdb through its MI2 interpreter. It is the "real"
// host behind HostDebugger; tests exercise the MI parsing helpers and use
// the replay host for everything else.
type GDBHost struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
}

// NewGDBHost spawns gdb on the given program and waits for the MI prompt.
func NewGDBHost(gdbPath, program string) (*GDBHost, error) {
	if gdbPath == "" {
		gdbPath = "gdb"
	}

	cmd := exec.Command(gdbPath, "--interpreter=mi2", "--quiet", program)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open gdb stdin: %w", err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open gdb stdout: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start gdb: %w", err)
	}

	h := &GDBHost{cmd: cmd, stdin: stdin, stdout: bufio.NewReader(stdout)}
	if _, err := h.readUntilPrompt(); err != nil {
		_ = h.Close()
		return nil, err
	}

	return h, nil
}

// Close terminates the gdb process.
func (h *GDBHost) Close() error {
	_, _ = io.WriteString(h.stdin, "-gdb-exit\n")
	_ = h.stdin.Close()

	return h.cmd.Wait()
}

// SelectedFrame implements HostDebugger.
func (h *GDBHost) SelectedFrame() (*FrameSnapshot, error) {
	record, err := h.send("-stack-info-frame")
	if err != nil {
		return nil, err
	}

	frame := parseMITuple(record.Results["frame"])

	line, err := strconv.Atoi(frame["line"])
	if err != nil {
		return nil, fmt.Errorf("gdb returned no line for the selected frame")
	}

	unit := frame["fullname"]
	if unit == "" {
		unit = frame["file"]
	}

	return &FrameSnapshot{Unit: filepath.Base(unit), Line: line, Vars: h}, nil
}

// ReadVariable implements VariableReader through gdb's expression
// evaluator.
func (h *GDBHost) ReadVariable(name string) (string, error) {
	record, err := h.send("-data-evaluate-expression " + strings.ToLower(name))
	if err != nil {
		return "", err
	}

	return record.Results["value"], nil
}

// SetBreakpoint implements HostDebugger.
func (h *GDBHost) SetBreakpoint(file string, line int) error {
	_, err := h.send(fmt.Sprintf("-break-insert %s:%d", file, line))
	return err
}

// RunUntil implements HostDebugger. It blocks until the target stops again.
func (h *GDBHost) RunUntil(line int) error {
	if _, err := h.send(fmt.Sprintf("-exec-until %d", line)); err != nil {
		return err
	}

	// -exec-until acknowledges with ^running; the stop itself arrives as
	// an async *stopped record.
	_, err := h.readUntilStopped()

	return err
}

func (h *GDBHost) send(command string) (miRecord, error) {
	logger.Log.Debug("gdb mi", "command", command)

	if _, err := io.WriteString(h.stdin, command+"\n"); err != nil {
		return miRecord{}, fmt.Errorf("failed to write to gdb: %w", err)
	}

	lines, err := h.readUntilPrompt()
	if err != nil {
		return miRecord{}, err
	}

	for _, line := range lines {
		if !strings.HasPrefix(line, "^") {
			continue
		}

		record, err := parseMIRecord(line)
		if err != nil {
			return miRecord{}, err
		}

		if record.Class == "error" {
			return miRecord{}, fmt.Errorf("gdb: %s", record.Results["msg"])
		}

		return record, nil
	}

	return miRecord{}, fmt.Errorf("gdb sent no result for %q", command)
}

func (h *GDBHost) readUntilPrompt() ([]string, error) {
	var lines []string

	for {
		line, err := h.stdout.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("failed to read from gdb: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "(gdb)" {
			return lines, nil
		}

		lines = append(lines, line)
	}
}

func (h *GDBHost) readUntilStopped() (miRecord, error) {
	for {
		lines, err := h.readUntilPrompt()
		if err != nil {
			return miRecord{}, err
		}

		for _, line := range lines {
			if strings.HasPrefix(line, "*stopped") {
				return parseMIRecord(line)
			}
		}
	}
}

// miRecord is one parsed MI result or async record.
type miRecord struct {
	Class   string
	Results map[string]string
}

// parseMIRecord splits records such as
//
//	^done,value="42"
//	*stopped,reason="end-stepping-range",frame={line="12",...}
//
// into a class and a flat map of top-level results. Nested tuples and lists
// are kept as raw text for parseMITuple.
func parseMIRecord(line string) (miRecord, error) {
	if line == "" || !strings.ContainsAny(line[:1], "^*=+") {
		return miRecord{}, fmt.Errorf("not an MI record: %q", line)
	}

	class, rest, _ := strings.Cut(line[1:], ",")

	return miRecord{Class: class, Results: parseMIResults(rest)}, nil
}

// parseMIResults parses a comma-separated list of key=value MI results.
// Values are either quoted strings or brace/bracket-delimited aggregates.
func parseMIResults(s string) map[string]string {
	results := make(map[string]string)

	for len(s) > 0 {
		eq := strings.IndexByte(s, '=')
		if eq < 0 {
			break
		}

		key := s[:eq]
		s = s[eq+1:]

		value, rest := scanMIValue(s)
		results[key] = value
		s = strings.TrimPrefix(rest, ",")
	}

	return results
}

// parseMITuple parses the inside of a {...} aggregate previously returned
// by parseMIResults.
func parseMITuple(s string) map[string]string {
	s = strings.TrimPrefix(s, "{")
	s = strings.TrimSuffix(s, "}")

	return parseMIResults(s)
}

func scanMIValue(s string) (value, rest string) {
	if s == "" {
		return "", ""
	}

	switch s[0] {
	case '"':
		// MI quotes values as C strings; undo the escapes here so user
		// facing values and error messages read naturally.
		var b strings.Builder

		for i := 1; i < len(s); i++ {
			c := s[i]

			if c == '\\' && i+1 < len(s) {
				i++

				switch s[i] {
				case 'n':
					b.WriteByte('\n')
				case 't':
					b.WriteByte('\t')
				default:
					b.WriteByte(s[i])
				}

				continue
			}

			if c == '"' {
				return b.String(), s[i+1:]
			}

			b.WriteByte(c)
		}

		return b.String(), ""
	case '{', '[':
		open, closing := s[0], byte('}')
		if open == '[' {
			closing = ']'
		}

		depth := 0
		inString := false

		for i := 0; i < len(s); i++ {
			switch {
			case inString && s[i] == '\\':
				i++
			case s[i] == '"':
				inString = !inString
			case !inString && s[i] == open:
				depth++
			case !inString && s[i] == closing:
				depth--
				if depth == 0 {
					return s[:i+1], s[i+1:]
				}
			}
		}

		return s, ""
	default:
		end := strings.IndexByte(s, ',')
		if end < 0 {
			return s, ""
		}

		return s[:end], s[end:]
	}
}
