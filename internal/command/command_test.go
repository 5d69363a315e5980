package command

import (
	"reflect"
	"testing"
)

func TestSpecAppendsInOrder(t *testing.T) {
	spec := New("relion_refine")
	spec.Option("--i", "particles.star").OptionInt("--iter", 25).OptionFloat("--angpix", 1.07).Flag("--ctf")

	want := []string{"relion_refine", "--i", "particles.star", "--iter", "25", "--angpix", "1.07", "--ctf"}
	if got := spec.Tokens(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected tokens: got %v want %v", got, want)
	}
	if got := spec.String(); got != "relion_refine --i particles.star --iter 25 --angpix 1.07 --ctf" {
		t.Fatalf("unexpected render: %q", got)
	}
}

func TestOptionFloatUsesShortestForm(t *testing.T) {
	spec := New("x")
	spec.OptionFloat("--d", 200)
	spec.OptionFloat("--s", 2.5)
	want := []string{"x", "--d", "200", "--s", "2.5"}
	if got := spec.Tokens(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected tokens: %v", got)
	}
}

func TestSingleChainRendersWithoutJoin(t *testing.T) {
	chain := Single(New("ctffind", "--amp", "0.1"))
	if chain.Len() != 1 {
		t.Fatalf("expected one step, got %d", chain.Len())
	}
	if got := chain.Render(); got != "ctffind --amp 0.1" {
		t.Fatalf("unexpected render: %q", got)
	}
}

func TestChainJoinsStepsWithAnd(t *testing.T) {
	chain := Single(New("step1", "--a", "1")).And(New("step2", "--b", "2"))
	if got := chain.Render(); got != "step1 --a 1 && step2 --b 2" {
		t.Fatalf("unexpected render: %q", got)
	}
	if chain.Len() != 2 {
		t.Fatalf("expected two steps, got %d", chain.Len())
	}
}

func TestChainAndDoesNotMutateReceiver(t *testing.T) {
	base := Single(New("first"))
	_ = base.And(New("second"))
	if base.Len() != 1 {
		t.Fatalf("And mutated the original chain: %d steps", base.Len())
	}
}

func TestTokensReturnsCopy(t *testing.T) {
	spec := New("bin", "--flag")
	tokens := spec.Tokens()
	tokens[0] = "mutated"
	if spec.Tokens()[0] != "bin" {
		t.Fatal("Tokens must return a defensive copy")
	}
}
