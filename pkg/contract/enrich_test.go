package contract

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mwakio197/Dbot-sub001/pkg/common"
	"github.com/mwakio197/Dbot-sub001/pkg/utility/fixed"
)

var pointComparer = cmp.Comparer(func(a, b fixed.Point) bool { return a.Eq(b) })

func TestContractEnrich_KnownTypes(t *testing.T) {
	tests := []struct {
		contractType  string
		barrier       common.Text
		displayName   string
		parameterType string
		message       string
	}{
		{TypeDigitDiff, "5", "Differs", ParameterDifferBarrier, "Contract parameter: Differ from 5"},
		{TypeDigitOver, "3", "Over", ParameterOverBarrier, "Contract parameter: Over 3"},
		{TypeDigitUnder, "7", "Under", ParameterUnderBarrier, "Contract parameter: Under 7"},
		{TypeDigitMatch, "0", "Matches", ParameterMatchBarrier, "Contract parameter: Match 0"},
		{TypeDigitEven, "", "Even", ParameterEvenOdd, "Contract parameter: Even"},
		{TypeDigitOdd, "9", "Odd", ParameterEvenOdd, "Contract parameter: Odd"},
	}

	for _, tt := range tests {
		t.Run(tt.contractType, func(t *testing.T) {
			in := common.ContractInfo{ContractType: tt.contractType, Barrier: tt.barrier, Symbol: "R_100"}

			got := Enrich(in)

			if got.DisplayName != tt.displayName {
				t.Errorf("DisplayName = %q; want %q", got.DisplayName, tt.displayName)
			}
			if got.ParameterType != tt.parameterType {
				t.Errorf("ParameterType = %q; want %q", got.ParameterType, tt.parameterType)
			}
			if got.DisplayMessage != tt.message {
				t.Errorf("DisplayMessage = %q; want %q", got.DisplayMessage, tt.message)
			}

			want := in
			want.DisplayName = tt.displayName
			want.ParameterType = tt.parameterType
			want.DisplayMessage = tt.message
			if diff := cmp.Diff(want, got, pointComparer); diff != "" {
				t.Errorf("Enrich changed unrelated fields (-want +got):\n%s", diff)
			}
		})
	}
}

func TestContractEnrich_MissingBarrier(t *testing.T) {
	tests := map[string]string{
		TypeDigitDiff:  "Contract parameter: Differ from",
		TypeDigitOver:  "Contract parameter: Over",
		TypeDigitUnder: "Contract parameter: Under",
		TypeDigitMatch: "Contract parameter: Match",
	}

	for contractType, want := range tests {
		got := Enrich(common.ContractInfo{ContractType: contractType})
		if got.DisplayMessage != want {
			t.Errorf("%s: DisplayMessage = %q; want %q", contractType, got.DisplayMessage, want)
		}
	}
}

func TestContractEnrich_UnknownTypeIsCopy(t *testing.T) {
	profit := fixed.MustParse("2.5")
	in := common.ContractInfo{ContractType: "CALL", Barrier: "1234.5", Profit: &profit, Symbol: "R_10"}

	got := Enrich(in)

	if diff := cmp.Diff(in, got, pointComparer); diff != "" {
		t.Errorf("Enrich(unknown) differs from input (-in +got):\n%s", diff)
	}
	if got.Profit == in.Profit {
		t.Error("Enrich(unknown) returned shared profit pointer")
	}
}

func TestContractEnrich_MissingTypeIsIdentity(t *testing.T) {
	entry := fixed.MustParse("100")
	in := common.ContractInfo{Barrier: "5", DisplayMessage: "kept", EntryTick: &entry}

	got := Enrich(in)

	if diff := cmp.Diff(in, got, pointComparer); diff != "" {
		t.Errorf("Enrich(no type) changed the record (-in +got):\n%s", diff)
	}
	if got.DisplayName != "" || got.ParameterType != "" {
		t.Error("Enrich(no type) derived fields")
	}
}

func TestContractEnrich_DoesNotMutateInput(t *testing.T) {
	entry := fixed.MustParse("1.25")
	ticks := 5
	in := common.ContractInfo{ContractType: TypeDigitDiff, Barrier: "4", EntryTick: &entry, TickCount: &ticks}
	snapshot := in.Clone()

	got := Enrich(in)
	*got.EntryTick = fixed.MustParse("9")
	*got.TickCount = 1

	if diff := cmp.Diff(snapshot, in, pointComparer); diff != "" {
		t.Errorf("Enrich mutated its input (-before +after):\n%s", diff)
	}
}

func TestContractEnrich_Deterministic(t *testing.T) {
	in := common.ContractInfo{ContractType: TypeDigitOver, Barrier: "6"}

	first := Enrich(in)
	second := Enrich(in)

	if diff := cmp.Diff(first, second, pointComparer); diff != "" {
		t.Errorf("Enrich is not deterministic:\n%s", diff)
	}
}
