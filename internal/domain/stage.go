package domain

import "strings"

// Stage identifies one canonical production stage.
type Stage string

// StageUnknown and the canonical stage keys define the closed stage catalog.
const (
	StageUnknown     Stage = ""
	StageKickoff     Stage = "kickoff"
	StageAssets      Stage = "assets"
	StageTranslation Stage = "translation"
	StageAdapting    Stage = "adapting"
	StageBreakdown   Stage = "breakdown"
	StageCasting     Stage = "casting"
	StageScheduling  Stage = "scheduling"
	StageRecording   Stage = "recording"
	StageQC1         Stage = "qc1"
	StageRetakes     Stage = "retakes"
	StageMix         Stage = "mix"
	StageQCMix       Stage = "qcmix"
	StageDelivery    Stage = "delivery"
)

// pipelineOrder defines the default linear progression across stage boards.
var pipelineOrder = []Stage{
	StageKickoff,
	StageAssets,
	StageTranslation,
	StageAdapting,
	StageBreakdown,
	StageCasting,
	StageScheduling,
	StageRecording,
	StageQC1,
	StageRetakes,
	StageMix,
	StageQCMix,
	StageDelivery,
}

// stageSynonyms resolves collapsed board labels, including regional and legacy
// spellings, onto canonical stage keys. Keys are pre-collapsed (lower-case,
// alphanumerics only); accented labels appear in both stripped forms.
var stageSynonyms = map[string]Stage{
	"kickoff":          StageKickoff,
	"arranque":         StageKickoff,
	"assets":           StageAssets,
	"materiales":       StageAssets,
	"materiais":        StageAssets,
	"translation":      StageTranslation,
	"traduccion":       StageTranslation,
	"traduccin":        StageTranslation,
	"traducao":         StageTranslation,
	"traduo":           StageTranslation,
	"adapting":         StageAdapting,
	"adaptation":       StageAdapting,
	"adaptacion":       StageAdapting,
	"adaptacin":        StageAdapting,
	"adaptacao":        StageAdapting,
	"adaptao":          StageAdapting,
	"breakdown":        StageBreakdown,
	"desglose":         StageBreakdown,
	"casting":          StageCasting,
	"voicetest":        StageCasting,
	"scheduling":       StageScheduling,
	"agendamiento":     StageScheduling,
	"agendamento":      StageScheduling,
	"recording":        StageRecording,
	"grabacion":        StageRecording,
	"grabacin":         StageRecording,
	"gravacao":         StageRecording,
	"gravao":           StageRecording,
	"qc":               StageQC1,
	"qc1":              StageQC1,
	"qualitycontrol":   StageQC1,
	"controldecalidad": StageQC1,
	"retakes":          StageRetakes,
	"retake":           StageRetakes,
	"regrabacion":      StageRetakes,
	"regrabacin":       StageRetakes,
	"mix":              StageMix,
	"mezcla":           StageMix,
	"mixagem":          StageMix,
	"qcmix":            StageQCMix,
	"qcdemezcla":       StageQCMix,
	"mixqc":            StageQCMix,
	"delivery":         StageDelivery,
	"entrega":          StageDelivery,
}

// PipelineOrder returns the canonical stage keys in progression order.
func PipelineOrder() []Stage {
	return append([]Stage(nil), pipelineOrder...)
}

// NormalizeStage maps one human stage label onto its canonical stage key.
// Labels that resolve to nothing in the catalog return StageUnknown.
func NormalizeStage(label string) Stage {
	key := collapseStageLabel(label)
	if key == "" {
		return StageUnknown
	}
	if stage, ok := stageSynonyms[key]; ok {
		return stage
	}
	return StageUnknown
}

// NextStage returns the stage that follows current in the default order.
// From breakdown the casting and scheduling boards are skipped unless a voice
// test was explicitly requested. The second return is false when current is
// terminal or unrecognized.
func NextStage(current Stage, voiceTestRequired bool) (Stage, bool) {
	if current == StageBreakdown && !voiceTestRequired {
		return StageRecording, true
	}
	for i, stage := range pipelineOrder {
		if stage != current {
			continue
		}
		if i+1 < len(pipelineOrder) {
			return pipelineOrder[i+1], true
		}
		return StageUnknown, false
	}
	return StageUnknown, false
}

// collapseStageLabel lower-cases one label and strips everything outside
// [a-z0-9] so spacing, punctuation, and accents never affect matching.
func collapseStageLabel(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return ""
	}
	var b strings.Builder
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	return b.String()
}
