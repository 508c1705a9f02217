package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubExec struct {
	calls []string
}

func (s *stubExec) record(name string) error {
	s.calls = append(s.calls, name)
	return nil
}

func (s *stubExec) Sow(ctx context.Context) error     { return s.record("sow") }
func (s *stubExec) List(ctx context.Context) error    { return s.record("list") }
func (s *stubExec) Orphans(ctx context.Context) error { return s.record("orphans") }
func (s *stubExec) Claim(ctx context.Context) error   { return s.record("claim") }
func (s *stubExec) Pending(ctx context.Context) error { return s.record("pending") }
func (s *stubExec) Sync(ctx context.Context) error    { return s.record("sync") }

func runWith(t *testing.T, input string) (*stubExec, []string) {
	t.Helper()

	var printed []string
	oldPrintln := printlnFn
	printlnFn = func(a ...any) (int, error) {
		for _, v := range a {
			if s, ok := v.(string); ok {
				printed = append(printed, s)
			}
		}
		return 0, nil
	}
	defer func() { printlnFn = oldPrintln }()

	stub := &stubExec{}
	scanner := bufio.NewScanner(strings.NewReader(input))
	runREPL(context.Background(), stub, func() string { return "(test)" }, scanner)
	return stub, printed
}

func TestREPL_DispatchesCommands(t *testing.T) {
	stub, _ := runWith(t, "sow\nlist\norphans\nclaim\npending\nsync\nexit\n")
	assert.Equal(t, []string{"sow", "list", "orphans", "claim", "pending", "sync"}, stub.calls)
}

func TestREPL_ListShortForm(t *testing.T) {
	stub, _ := runWith(t, "l\nquit\n")
	assert.Equal(t, []string{"list"}, stub.calls)
}

func TestREPL_UnknownCommandReported(t *testing.T) {
	stub, printed := runWith(t, "dance\nexit\n")
	assert.Empty(t, stub.calls)
	assert.Contains(t, printed, "Unknown command:")
}

func TestREPL_BlankLinesIgnoredAndEOFExits(t *testing.T) {
	stub, _ := runWith(t, "\n\nlist\n")
	assert.Equal(t, []string{"list"}, stub.calls)
}
