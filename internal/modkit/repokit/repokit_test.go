package repokit

import (
	"strings"
	"testing"
)

type ledger interface{ Name() string }

type pgLedger struct{ q Queryer }

func (pgLedger) Name() string { return "pg" }

type binder struct{}

func (binder) Bind(q Queryer) ledger { return pgLedger{q: q} }

type fakeQ struct{ Queryer }

func TestMustBindPassesQueryer(t *testing.T) {
	q := fakeQ{}
	got := MustBind[ledger](binder{}, q)
	if l, ok := got.(pgLedger); !ok || l.q != q {
		t.Fatalf("bound = %#v", got)
	}
}

func TestMustBindNilNamesRepo(t *testing.T) {
	defer func() {
		msg, _ := recover().(string)
		if !strings.Contains(msg, "repokit.ledger") {
			t.Fatalf("panic = %q", msg)
		}
	}()
	MustBind[ledger](binder{}, nil)
}
