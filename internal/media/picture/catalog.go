package picture

// DefaultResolution is used for unknown resolution names.
const DefaultResolution = "4k"

// DefaultStyleDescriptor is used for unknown style names.
const DefaultStyleDescriptor = "high quality artwork"

// Resolutions maps resolution names to their pixel size.
var Resolutions = map[string]Size{
	"hd": {Width: 1920, Height: 1080},
	"2k": {Width: 2560, Height: 1440},
	"4k": {Width: 3840, Height: 2160},
	"8k": {Width: 7680, Height: 4320},
}

// StyleDescriptors maps style names to the text appended to prompts.
var StyleDescriptors = map[string]string{
	"photorealistic": "photorealistic, highly detailed, professional photography",
	"artistic":       "artistic, creative, expressive art style",
	"concept-art":    "concept art, detailed illustration, professional design",
	"anime":          "anime style, detailed anime artwork",
	"3d-render":      "3D rendered, realistic lighting, high quality render",
	"oil-painting":   "oil painting style, classical art technique",
	"cyberpunk":      "cyberpunk aesthetic, neon lights, futuristic",
	"fantasy":        "fantasy art, magical, ethereal atmosphere",
}

// ResolutionFor returns the size of the named resolution, or 4k.
func ResolutionFor(name string) Size {
	if s, ok := Resolutions[name]; ok {
		return s
	}
	return Resolutions[DefaultResolution]
}

// EnhancePrompt appends the style descriptor to the prompt.
func EnhancePrompt(prompt, style string) string {
	desc, ok := StyleDescriptors[style]
	if !ok {
		desc = DefaultStyleDescriptor
	}
	return prompt + ", " + desc
}
