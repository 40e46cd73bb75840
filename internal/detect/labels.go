package detect

// fishLabels maps English class names to their Chinese display labels.
var fishLabels = map[string]string{
	"AngelFish":              "神仙鱼",
	"BlueTang":               "蓝吊",
	"ButterflyFish":          "蝶鱼",
	"ClownFish":              "小丑鱼",
	"GoldFish":               "金鱼",
	"Gourami":                "丝足鱼",
	"MorishIdol":             "神像鱼",
	"PlatyFish":              "月光鱼",
	"RibbonedSweetlips":      "带纹胡椒鲷",
	"ThreeStripedDamselfish": "三间雀",
	"YellowCichlid":          "黄色慈鲷",
	"YellowTang":             "黄三角吊",
	"ZebraFish":              "斑马鱼",
}

// Translator turns English detection labels into display labels. Unknown
// labels pass through unchanged.
type Translator struct {
	labels map[string]string
}

// NewTranslator returns a Translator with the built-in fish label table.
func NewTranslator() *Translator {
	return &Translator{labels: fishLabels}
}

// NewTranslatorWithLabels returns a Translator backed by a custom table.
func NewTranslatorWithLabels(labels map[string]string) *Translator {
	return &Translator{labels: labels}
}

// Translate returns the display label for an English label, falling back to
// the input itself when no mapping exists.
func (t *Translator) Translate(label string) string {
	if display, ok := t.labels[label]; ok {
		return display
	}
	return label
}
