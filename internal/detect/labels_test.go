package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslate_KnownLabel(t *testing.T) {
	tr := NewTranslator()

	assert.Equal(t, "小丑鱼", tr.Translate("ClownFish"))
	assert.Equal(t, "金鱼", tr.Translate("GoldFish"))
	assert.Equal(t, "斑马鱼", tr.Translate("ZebraFish"))
}

func TestTranslate_UnknownLabelPassesThrough(t *testing.T) {
	tr := NewTranslator()

	assert.Equal(t, "SharkFish", tr.Translate("SharkFish"))
	assert.Equal(t, "", tr.Translate(""))
}

func TestTranslate_CustomTable(t *testing.T) {
	tr := NewTranslatorWithLabels(map[string]string{"cat": "chat"})

	assert.Equal(t, "chat", tr.Translate("cat"))
	assert.Equal(t, "dog", tr.Translate("dog"))
}
