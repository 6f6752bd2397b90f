package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/richxcame/giftcard-service/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubstitutePlaceholders(t *testing.T) {
	tests := []struct {
		name     string
		tpl      string
		data     map[string]string
		expected string
	}{
		{
			name:     "single placeholder",
			tpl:      "code: {{code}}",
			data:     map[string]string{"code": "INF-ABCD-2345"},
			expected: "code: INF-ABCD-2345",
		},
		{
			name:     "repeated placeholder",
			tpl:      "{{code}} / {{code}}",
			data:     map[string]string{"code": "INF-ABCD-2345"},
			expected: "INF-ABCD-2345 / INF-ABCD-2345",
		},
		{
			name:     "unknown placeholder left untouched",
			tpl:      "hello {{missing}}",
			data:     map[string]string{"code": "x"},
			expected: "hello {{missing}}",
		},
		{
			name:     "empty data",
			tpl:      "static text",
			data:     map[string]string{},
			expected: "static text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SubstitutePlaceholders(tt.tpl, tt.data))
		})
	}
}

func TestRenderer_DisabledConfig(t *testing.T) {
	renderer := NewRenderer(config.PDFConfig{Enabled: false})

	_, err := renderer.RenderGiftCard(context.Background(), GiftCardData{
		Code:       "INF-ABCD-2345",
		ExpiryDate: time.Now(),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestRenderer_MissingURLDisables(t *testing.T) {
	renderer := NewRenderer(config.PDFConfig{Enabled: true, RendererURL: ""})

	_, err := renderer.Render(context.Background(), "<div></div>", "", nil)

	assert.ErrorIs(t, err, ErrDisabled)
}
