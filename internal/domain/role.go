package domain

// RoleSlot identifies one specialized assignee column on a task.
type RoleSlot string

// RoleTranslator and related constants enumerate the role slots a stage can own.
const (
	RoleTranslator    RoleSlot = "translator"
	RoleAdapter       RoleSlot = "adapter"
	RoleQCPrimary     RoleSlot = "qc-primary"
	RoleQCRetakes     RoleSlot = "qc-retakes"
	RoleQCMix         RoleSlot = "qc-mix"
	RoleMixer         RoleSlot = "mixer"
	RoleMixerColombia RoleSlot = "mixer-colombia"
)

// MixVariant selects which mixer column the mix stage reads. The caller
// resolves the variant once from pipeline identity; the mapping below never
// re-derives it.
type MixVariant string

const (
	MixVariantDefault  MixVariant = "default"
	MixVariantColombia MixVariant = "colombia"
)

// RoleForStage resolves the assignee slot that owns a destination stage.
// Stages without a role slot return false: privacy handling skips them.
func RoleForStage(stage Stage, variant MixVariant) (RoleSlot, bool) {
	switch stage {
	case StageTranslation:
		return RoleTranslator, true
	case StageAdapting:
		return RoleAdapter, true
	case StageQC1:
		return RoleQCPrimary, true
	case StageRetakes:
		return RoleQCRetakes, true
	case StageQCMix:
		return RoleQCMix, true
	case StageMix:
		if variant == MixVariantColombia {
			return RoleMixerColombia, true
		}
		return RoleMixer, true
	default:
		return "", false
	}
}
