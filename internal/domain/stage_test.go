package domain

import "testing"

func TestNormalizeStage(t *testing.T) {
	cases := []struct {
		label string
		want  Stage
	}{
		{"Translation", StageTranslation},
		{"  Traducción ", StageTranslation},
		{"Traducao", StageTranslation},
		{"Adaptación", StageAdapting},
		{"QC", StageQC1},
		{"Quality Control", StageQC1},
		{"Control de Calidad", StageQC1},
		{"QC 1", StageQC1},
		{"Re-Takes", StageRetakes},
		{"Mezcla", StageMix},
		{"QC de Mezcla", StageQCMix},
		{"Entrega", StageDelivery},
		{"Voice Test", StageCasting},
		{"Desglose", StageBreakdown},
		{"Recording", StageRecording},
		{"Invoice Review", StageUnknown},
		{"", StageUnknown},
	}
	for _, tc := range cases {
		if got := NormalizeStage(tc.label); got != tc.want {
			t.Errorf("NormalizeStage(%q) = %q, want %q", tc.label, got, tc.want)
		}
	}
}

func TestNormalizeStageIdempotent(t *testing.T) {
	labels := []string{"Translation", "Mezcla", "QC", "nonsense", ""}
	for _, label := range labels {
		once := NormalizeStage(label)
		twice := NormalizeStage(string(once))
		if once != twice {
			t.Errorf("NormalizeStage not idempotent for %q: %q then %q", label, once, twice)
		}
	}
}

func TestNextStageFollowsPipelineOrder(t *testing.T) {
	order := PipelineOrder()
	for i := 0; i < len(order)-1; i++ {
		if order[i] == StageBreakdown {
			continue
		}
		next, ok := NextStage(order[i], true)
		if !ok {
			t.Fatalf("NextStage(%q) ok = false, want true", order[i])
		}
		if next != order[i+1] {
			t.Errorf("NextStage(%q) = %q, want %q", order[i], next, order[i+1])
		}
	}
}

func TestNextStageBreakdownSkip(t *testing.T) {
	next, ok := NextStage(StageBreakdown, false)
	if !ok || next != StageRecording {
		t.Fatalf("NextStage(breakdown, false) = %q, %t, want recording, true", next, ok)
	}
	next, ok = NextStage(StageBreakdown, true)
	if !ok || next != StageCasting {
		t.Fatalf("NextStage(breakdown, true) = %q, %t, want casting, true", next, ok)
	}
}

func TestNextStageTerminal(t *testing.T) {
	if next, ok := NextStage(StageDelivery, false); ok {
		t.Fatalf("NextStage(delivery) = %q, want terminal", next)
	}
	if next, ok := NextStage(StageUnknown, false); ok {
		t.Fatalf("NextStage(unknown) = %q, want terminal", next)
	}
}

func TestRoleForStage(t *testing.T) {
	cases := []struct {
		stage   Stage
		variant MixVariant
		want    RoleSlot
		ok      bool
	}{
		{StageTranslation, MixVariantDefault, RoleTranslator, true},
		{StageAdapting, MixVariantDefault, RoleAdapter, true},
		{StageQC1, MixVariantDefault, RoleQCPrimary, true},
		{StageRetakes, MixVariantDefault, RoleQCRetakes, true},
		{StageQCMix, MixVariantDefault, RoleQCMix, true},
		{StageMix, MixVariantDefault, RoleMixer, true},
		{StageMix, MixVariantColombia, RoleMixerColombia, true},
		{StageRecording, MixVariantDefault, "", false},
		{StageKickoff, MixVariantColombia, "", false},
	}
	for _, tc := range cases {
		got, ok := RoleForStage(tc.stage, tc.variant)
		if ok != tc.ok || got != tc.want {
			t.Errorf("RoleForStage(%q, %q) = %q, %t, want %q, %t", tc.stage, tc.variant, got, ok, tc.want, tc.ok)
		}
	}
}
