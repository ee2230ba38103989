package transform

import "go.trai.ch/forge/internal/core/domain"

func requestFixture() domain.TransformRequest {
	presets := domain.BuiltinPresets()
	return domain.TransformRequest{
		Input: "/in/a.png",
		Kind:  domain.KindImage,
		Config: domain.ProcessingConfig{
			Preset: "web",
			Image:  presets["web"].Image,
			Audio:  presets["web"].Audio,
			Model:  presets["web"].Model,
		},
	}
}
