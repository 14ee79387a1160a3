// Package publicsuffix adapts golang.org/x/net/publicsuffix to the single
// collaborator the cookie jar's store-and-retrieve state machine needs: a
// registrable-parent oracle. It is the "publicsuffix.registrable_parent"
// external collaborator from the cookie engine specification. By default it
// delegates to the embedded golang.org/x/net/publicsuffix table; LoadList
// lets a deployment override that table with its own public suffix list
// file (wired from COOKIEJAR_PUBLIC_SUFFIX_LIST, see config.go), since
// golang.org/x/net/publicsuffix has no runtime loader of its own.
package publicsuffix

import (
	"bufio"
	"os"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// ------------------------------------------------------------------------

// custom holds a list loaded by LoadList. A nil custom means "use the
// embedded golang.org/x/net/publicsuffix table".
var custom *ruleList

// ------------------------------------------------------------------------

// PublicSuffix returns the public suffix of domain and whether it was found
// in the ICANN-managed section of the list. It delegates to
// golang.org/x/net/publicsuffix unless LoadList has installed a custom
// list, in which case icann is always reported false (a custom list does
// not distinguish ICANN from private rules).
func PublicSuffix(domain string) (suffix string, icann bool) {
	if custom != nil {
		return custom.publicSuffix(domain), false
	}

	return publicsuffix.PublicSuffix(domain)
}

// ------------------------------------------------------------------------

// HasRegistrableParent reports whether domain has a registrable parent,
// i.e. whether domain is not itself a public suffix. A jar with
// RejectPublicSuffixes enabled refuses to store a cookie whose domain
// fails this check (spec invariant: no stored cookie's domain is itself a
// public suffix).
func HasRegistrableParent(domain string) bool {
	suffix, _ := PublicSuffix(domain)

	return suffix != domain
}

// ------------------------------------------------------------------------

// LoadList reads a public suffix list file (the format published at
// https://publicsuffix.org/list/: one rule per line, blank lines and "//"
// comments ignored, "*." wildcard rules, "!" exception rules) and installs
// it as the table PublicSuffix/HasRegistrableParent consult. A blank path
// clears any override, reverting to the embedded
// golang.org/x/net/publicsuffix table.
func LoadList(path string) error {
	if path == "" {
		custom = nil

		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	list := &ruleList{}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}

		list.rules = append(list.rules, parseRule(line))
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	custom = list

	return nil
}

// ------------------------------------------------------------------------

// rule is one public suffix list rule, its labels stored top-level first
// (i.e. "co.uk" becomes ["uk", "co"]) so it lines up against a reversed
// domain label slice without re-reversing per lookup.
type rule struct {
	labels    []string
	exception bool
}

// ------------------------------------------------------------------------

func parseRule(line string) rule {
	var r rule

	if strings.HasPrefix(line, "!") {
		r.exception = true
		line = line[1:]
	}

	labels := strings.Split(line, ".")
	for i, j := 0, len(labels)-1; i < j; i, j = i+1, j-1 {
		labels[i], labels[j] = labels[j], labels[i]
	}
	r.labels = labels

	return r
}

// ------------------------------------------------------------------------

// matches reports whether r applies to domainRev, a domain's labels in the
// same top-level-first order as r.labels, and if so how many labels
// (counted from the top level) the match covers.
func (r rule) matches(domainRev []string) (labelCount int, ok bool) {
	if len(r.labels) > len(domainRev) {
		return 0, false
	}

	for i, label := range r.labels {
		if label != "*" && label != domainRev[i] {
			return 0, false
		}
	}

	return len(r.labels), true
}

// ------------------------------------------------------------------------

type ruleList struct {
	rules []rule
}

// publicSuffix applies the publicsuffix.org "longest matching rule wins"
// algorithm: the implicit "*" rule (the last label alone) applies unless a
// loaded rule matches more labels, and a matching exception rule shortens
// its own match by one label.
func (rl *ruleList) publicSuffix(domain string) string {
	labels := strings.Split(domain, ".")

	domainRev := make([]string, len(labels))
	for i, l := range labels {
		domainRev[len(labels)-1-i] = l
	}

	bestCount := 1
	bestException := false

	for _, r := range rl.rules {
		count, ok := r.matches(domainRev)
		if !ok || count < bestCount {
			continue
		}
		if count > bestCount {
			bestCount = count
			bestException = r.exception

			continue
		}
		bestException = bestException || r.exception
	}

	suffixLen := bestCount
	if bestException {
		suffixLen--
	}
	if suffixLen < 1 {
		suffixLen = 1
	}
	if suffixLen > len(labels) {
		suffixLen = len(labels)
	}

	return strings.Join(labels[len(labels)-suffixLen:], ".")
}
