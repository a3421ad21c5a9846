package config

// DefaultSchema returns the built-in settings schema the registry starts
// with when no schema has been persisted yet. Pages can be added or removed
// through the API afterwards.
func DefaultSchema() *Schema {
	schema := &Schema{
		Pages: []PageDef{
			{
				Name:        "video",
				Label:       "Video",
				SearchHints: "resolution fullscreen window borderless vsync fov field of view gamma",
				Settings: []SettingDef{
					{Key: "resolution", Section: "video", Type: TypeString, Default: "1920 x 1080"},
					{Key: "window mode", Section: "video", Type: TypeChoice, Choices: []string{"fullscreen", "windowed fullscreen", "windowed"}},
					{Key: "window border", Section: "video", Type: TypeBool, Default: true},
					{Key: "vsync", Section: "video", Type: TypeBool, Default: true},
					{Key: "field of view", Section: "video", Type: TypeFloat, Default: 60.0, Min: 30, Max: 140, Step: 1},
					{Key: "gamma", Section: "video", Type: TypeFloat, Default: 1.0, Min: 0.1, Max: 3.0, Step: 0.05},
				},
			},
			{
				Name:        "detail",
				Label:       "Detail",
				SearchHints: "water reflection lighting shaders lights texture filtering quality",
				Settings: []SettingDef{
					{Key: "water texture size", Section: "water", Type: TypeChoice, Choices: []string{"512", "1024", "2048"}, Default: "1024"},
					{Key: "reflection detail", Section: "water", Type: TypeInt, Default: 2, Min: 0, Max: 5, Step: 1},
					{Key: "rain ripple detail", Section: "water", Type: TypeInt, Default: 1, Min: 0, Max: 2, Step: 1},
					{Key: "lighting method", Section: "shaders", Type: TypeChoice, Choices: []string{"legacy", "shaders compatibility", "shaders"}, Default: "shaders"},
					{Key: "max lights", Section: "shaders", Type: TypeInt, Default: 8, Min: 8, Max: 32, Step: 8},
					{Key: "texture mipmap", Section: "general", Type: TypeChoice, Choices: []string{"none", "nearest", "linear"}, Default: "linear"},
					{Key: "anisotropy", Section: "general", Type: TypeInt, Default: 4, Min: 0, Max: 16, Step: 1},
				},
			},
			{
				Name:        "audio",
				Label:       "Audio",
				SearchHints: "volume sound music effects voice footsteps master",
				Settings: []SettingDef{
					{Key: "master volume", Section: "sound", Type: TypeFloat, Default: 1.0, Min: 0, Max: 1, Step: 0.05},
					{Key: "music volume", Section: "sound", Type: TypeFloat, Default: 0.5, Min: 0, Max: 1, Step: 0.05},
					{Key: "effects volume", Section: "sound", Type: TypeFloat, Default: 1.0, Min: 0, Max: 1, Step: 0.05},
					{Key: "voice volume", Section: "sound", Type: TypeFloat, Default: 0.8, Min: 0, Max: 1, Step: 0.05},
				},
			},
			{
				Name:        "controls",
				Label:       "Controls",
				SearchHints: "keyboard controller gamepad bindings sensitivity invert mouse",
				Settings: []SettingDef{
					{Key: "camera sensitivity", Section: "input", Type: TypeFloat, Default: 1.0, Min: 0.2, Max: 5.0, Step: 0.1},
					{Key: "invert x axis", Section: "input", Type: TypeBool, Default: false},
					{Key: "invert y axis", Section: "input", Type: TypeBool, Default: false},
					{Key: "enable controller", Section: "input", Type: TypeBool, Default: true},
				},
			},
			{
				Name:        "language",
				Label:       "Language",
				SearchHints: "locale localization translation font gmst",
				Settings: []SettingDef{
					{Key: "preferred locales", Section: "general", Type: TypeString, Default: "en"},
				},
			},
		},
	}
	schema.ApplyDefaults()
	return schema
}
