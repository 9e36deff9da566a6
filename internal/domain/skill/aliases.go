package skill

// Alias maps one canonical token to the surface forms that resolve to it.
type Alias struct {
	Canonical string
	Forms     []string
}

// DefaultAliases is the built-in synonym table. Earlier entries win on lookup.
// Forms are folded before use, so "react.js" is stored as "react js".
var DefaultAliases = []Alias{ //nolint:gochecknoglobals // configuration constant
	{Canonical: "ui", Forms: []string{"ui", "user interface", "u.i", "ui design"}},
	{Canonical: "ux", Forms: []string{"ux", "user experience", "u.x", "ux design"}},
	{Canonical: "react", Forms: []string{"react", "reactjs", "react.js"}},
	{Canonical: "typescript", Forms: []string{"typescript", "ts", "typescripts"}},
	{Canonical: "javascript", Forms: []string{"javascript", "js"}},
	{Canonical: "nodejs", Forms: []string{"nodejs", "node.js", "node"}},
	{Canonical: "python", Forms: []string{"python", "py"}},
	{Canonical: "java", Forms: []string{"java", "javax"}},
	{Canonical: "csharp", Forms: []string{"c#", "csharp", "c-sharp"}},
	{Canonical: "cpp", Forms: []string{"c++", "cpp"}},
	{Canonical: "machine learning", Forms: []string{"machine learning", "ml", "deep learning"}},
	{Canonical: "artificial intelligence", Forms: []string{"artificial intelligence", "ai", "ai/ml"}},
	{Canonical: "graphic design", Forms: []string{"graphic design", "graphics"}},
	{Canonical: "video editing", Forms: []string{"video editing", "video"}},
	{Canonical: "public speaking", Forms: []string{"public speaking", "speaking"}},
	{Canonical: "data analysis", Forms: []string{"data analysis", "analytics", "data analytics"}},
	{Canonical: "content writing", Forms: []string{"content writing", "writing", "copywriting"}},
	{Canonical: "digital marketing", Forms: []string{"digital marketing", "marketing"}},
	{Canonical: "fitness training", Forms: []string{"fitness training", "fitness", "gym"}},
	{Canonical: "guitar", Forms: []string{"guitar", "guitars"}},
	{Canonical: "piano", Forms: []string{"piano", "keyboards"}},
	{Canonical: "photography", Forms: []string{"photography", "photo"}},
}
