// Package policy provides optional declarative rules deciding whether an
// action type needs the user's confirmation, is approved outright, or is
// refused without asking.
package policy
