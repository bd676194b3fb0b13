package util

import (
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

const utf8BOM = "\uFEFF"

var charReplacementMap = map[string]string{
	"\u00a0": " ", "\u200b": "", "\u200c": "", "\u200d": "",
	"\u2060": "", "\u3000": " ",
}

// CleanInput strips a leading BOM, drops zero-width characters, turns
// exotic spaces into plain ones and trims the result. Invalid UTF-8 is left
// untouched so the caller can reject it.
func CleanInput(s string) string {
	s = strings.TrimPrefix(s, utf8BOM)
	for bad, good := range charReplacementMap {
		s = strings.ReplaceAll(s, bad, good)
	}
	return strings.TrimSpace(s)
}

// Hosts extracts the host of raw and returns it in ASCII (punycode) and
// Unicode form. Inputs without a scheme are parsed as if prefixed by
// "http://". Both results are empty when no host can be found.
func Hosts(raw string) (ascii, unicode string) {
	candidate := raw
	if !strings.Contains(candidate, "://") {
		candidate = "http://" + candidate
	}
	u, err := url.Parse(candidate)
	if err != nil || u.Hostname() == "" {
		return "", ""
	}
	host := strings.ToLower(u.Hostname())

	ascii, err = idna.Punycode.ToASCII(host)
	if err != nil {
		return "", ""
	}
	unicode, err = idna.Punycode.ToUnicode(ascii)
	if err != nil {
		unicode = host
	}
	return ascii, unicode
}
