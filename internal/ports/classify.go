package ports

import "strings"

// browserFragments are command line substrings that identify end-user
// browsers. A browser keeps dev-server ports open through established
// connections and must never be killed just for holding the port.
var browserFragments = []string{
	"chrome",
	"chromium",
	"firefox",
	"safari",
	"webkit",
	"msedge",
	"edge",
	"brave",
	"opera",
	"vivaldi",
}

// MatchesKnownServer reports whether the command line matches one of the
// expected server signature fragments. This is the safety gate for port
// reclamation: only processes that pass this predicate are ever terminated.
func MatchesKnownServer(cmdline string, fragments []string) bool {
	if cmdline == "" {
		return false
	}
	lower := strings.ToLower(cmdline)
	for _, fragment := range fragments {
		if fragment == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(fragment)) {
			return true
		}
	}
	return false
}

// LooksLikeBrowser reports whether the command line looks like an end-user
// browser process.
func LooksLikeBrowser(cmdline string) bool {
	return MatchesKnownServer(cmdline, browserFragments)
}
