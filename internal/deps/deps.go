// Package deps reports which external programs quotevoice can use.
package deps

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

// Status represents the installation status of a dependency
type Status struct {
	Installed bool
	Path      string
	Version   string
}

// Tool is an external program and the flag that prints its version.
type Tool struct {
	Name        string
	Binary      string
	VersionFlag string
	Purpose     string
}

var (
	WhisperCli = Tool{Name: "whisper.cpp", Binary: "whisper-cli", VersionFlag: "--version", Purpose: "local transcription"}
	PwRecord   = Tool{Name: "PipeWire", Binary: "pw-record", VersionFlag: "--version", Purpose: "microphone capture"}
	NotifySend = Tool{Name: "libnotify", Binary: "notify-send", VersionFlag: "--version", Purpose: "desktop notifications"}
)

// Tools lists every program the doctor command inspects.
func Tools() []Tool {
	return []Tool{WhisperCli, PwRecord, NotifySend}
}

const versionTimeout = 2 * time.Second

// Check looks the tool up in PATH and asks it for a version line.
func Check(tool Tool) Status {
	path, err := exec.LookPath(tool.Binary)
	if err != nil {
		return Status{Installed: false}
	}

	status := Status{
		Installed: true,
		Path:      path,
	}

	if tool.VersionFlag == "" {
		return status
	}

	ctx, cancel := context.WithTimeout(context.Background(), versionTimeout)
	defer cancel()

	// some tools print the version on stderr
	output, err := exec.CommandContext(ctx, path, tool.VersionFlag).CombinedOutput()
	if err == nil {
		status.Version = firstLine(string(output))
	}

	return status
}

// CheckWhisperCli checks if whisper-cli is installed and returns its status
func CheckWhisperCli() Status {
	return Check(WhisperCli)
}

// CheckPwRecord checks if pw-record is installed and returns its status
func CheckPwRecord() Status {
	return Check(PwRecord)
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
