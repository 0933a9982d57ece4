package sdkver

import (
	"fmt"
	"strings"
)

// Relation is the comparison a predicate applies against an SDK version.
type Relation string

const (
	RelationEQ Relation = "eq"
	RelationLT Relation = "lt"
	RelationLE Relation = "le"
	RelationGT Relation = "gt"
	RelationGE Relation = "ge"
)

// predicateDirPrefix is the directory-name prefix for version-gated patch
// sets, e.g. "Sdk_le_10.0.19041.0".
const predicateDirPrefix = "Sdk_"

// ParseRelation parses a relation token from a patch set directory name.
func ParseRelation(s string) (Relation, error) {
	switch Relation(s) {
	case RelationEQ, RelationLT, RelationLE, RelationGT, RelationGE:
		return Relation(s), nil
	}
	return "", fmt.Errorf("unknown relation %q (want eq, lt, le, gt or ge)", s)
}

// Symbol returns the comparison operator for display ("<=", "=", ...).
func (r Relation) Symbol() string {
	switch r {
	case RelationEQ:
		return "="
	case RelationLT:
		return "<"
	case RelationLE:
		return "<="
	case RelationGT:
		return ">"
	case RelationGE:
		return ">="
	}
	return string(r)
}

// Predicate gates a patch set to a range of SDK versions.
type Predicate struct {
	Relation Relation
	Version  Version
}

// Matches reports whether the SDK version v satisfies the predicate.
func (p Predicate) Matches(v Version) bool {
	cmp := v.Compare(p.Version)
	switch p.Relation {
	case RelationEQ:
		return cmp == 0
	case RelationLT:
		return cmp < 0
	case RelationLE:
		return cmp <= 0
	case RelationGT:
		return cmp > 0
	case RelationGE:
		return cmp >= 0
	}
	return false
}

// String renders the predicate for display, e.g. "Sdk <= 10.0.19041.0".
func (p Predicate) String() string {
	return fmt.Sprintf("Sdk %s %s", p.Relation.Symbol(), p.Version)
}

// DirName renders the patch set directory name for the predicate,
// e.g. "Sdk_le_10.0.19041.0".
func (p Predicate) DirName() string {
	return fmt.Sprintf("%s%s_%s", predicateDirPrefix, p.Relation, p.Version)
}

// IsPredicateDirName reports whether name looks like a version-gated patch
// set directory. It does not validate the relation or version.
func IsPredicateDirName(name string) bool {
	return strings.HasPrefix(name, predicateDirPrefix)
}

// ParsePredicateDirName parses a patch set directory name of the form
// Sdk_<relation>_<version>.
func ParsePredicateDirName(name string) (Predicate, error) {
	if !strings.HasPrefix(name, predicateDirPrefix) {
		return Predicate{}, fmt.Errorf("invalid patch set directory %q: missing %q prefix", name, predicateDirPrefix)
	}

	rest := strings.TrimPrefix(name, predicateDirPrefix)
	sep := strings.Index(rest, "_")
	if sep < 0 {
		return Predicate{}, fmt.Errorf("invalid patch set directory %q: expected Sdk_<relation>_<version>", name)
	}

	rel, err := ParseRelation(rest[:sep])
	if err != nil {
		return Predicate{}, fmt.Errorf("invalid patch set directory %q: %w", name, err)
	}

	ver, err := Parse(rest[sep+1:])
	if err != nil {
		return Predicate{}, fmt.Errorf("invalid patch set directory %q: %w", name, err)
	}

	return Predicate{Relation: rel, Version: ver}, nil
}
