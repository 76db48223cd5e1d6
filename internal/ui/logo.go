package ui

import (
	"os/exec"
	"strings"
	"sync"
)

const logoText = "tally"

var (
	bannerOnce sync.Once
	bannerText string
)

// banner returns the figlet rendering of the logo, or the plain logo when
// figlet is not installed. The result is computed once.
func banner() string {
	bannerOnce.Do(func() {
		bannerText = logoText
		out, err := exec.Command("figlet", "-f", "slant", logoText).Output()
		if err != nil {
			return
		}
		if trimmed := strings.TrimRight(string(out), "\n "); trimmed != "" {
			bannerText = trimmed
		}
	})
	return bannerText
}
