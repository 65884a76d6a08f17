package cmd

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type ExitMocks struct {
	mock.Mock
	exitStatuses []int
	messages     []string
}

func (m *ExitMocks) Fatalf(format string, v ...interface{}) {
	m.messages = append(m.messages, fmt.Sprintf(format, v...))
	m.exitStatuses = append(m.exitStatuses, 1)
}

func (m *ExitMocks) Fatalln(v ...interface{}) {
	m.messages = append(m.messages, fmt.Sprintln(v...))
	m.exitStatuses = append(m.exitStatuses, 1)
}

func (m *ExitMocks) fatalCalls() int {
	return len(m.exitStatuses)
}

func (m *ExitMocks) lastMessage() string {
	if len(m.messages) == 0 {
		return ""
	}
	return m.messages[len(m.messages)-1]
}

func NewExitMocks() *ExitMocks {
	exitMocks := ExitMocks{
		exitStatuses: make([]int, 0),
	}
	return &exitMocks
}

var exitMocks *ExitMocks

func setupTests(t *testing.T) afero.Fs {
	exitMocks = NewExitMocks()
	logFatalln = exitMocks.Fatalln
	logFatalf = exitMocks.Fatalf
	appFs = afero.NewMemMapFs()
	return appFs
}

// resetFlags restores the defaults of all flags, since commands are run
// several times in the same process
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func runCmd(t *testing.T, cmd []string, intentMsg string, expectError bool) string {
	fatalCallsBefore := exitMocks.fatalCalls()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append(cmd, "--loglevel", "none"))
	require.NoError(t, rootCmd.Execute(), "error executing '"+strings.Join(cmd, " ")+"' : "+intentMsg)
	if expectError {
		require.Equal(t, fatalCallsBefore+1, exitMocks.fatalCalls(),
			"ran '"+strings.Join(cmd, " ")+"' expecting error and didn't see one in mocks : "+intentMsg)
	} else {
		require.Equal(t, fatalCallsBefore, exitMocks.fatalCalls(),
			"unexpected error in mocks on '"+strings.Join(cmd, " ")+"' : "+intentMsg+": "+exitMocks.lastMessage())
	}
	return out.String()
}
