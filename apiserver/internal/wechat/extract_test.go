package wechat

import (
	"testing"

	dida "github.com/2977094657/DidaAPI"
	"github.com/stretchr/testify/require"
)

func TestExtractQRKey(t *testing.T) {
	testCases := []struct {
		name        string
		html        string
		expectedKey string
		assertions  func(t *testing.T, key string, err error)
	}{
		{
			name: "qrcode img tag",
			html: `<html><body>` +
				`<img class="web qrcode lightBorder" ` +
				`src="/connect/qrcode/ABCDEF0123456789">` +
				`</body></html>`,
			expectedKey: "ABCDEF0123456789",
		},
		{
			name:        "qrcode path without img tag",
			html:        `background: url(/connect/qrcode/aaaabbbbccccdddd);`,
			expectedKey: "aaaabbbbccccdddd",
		},
		{
			name:        "bare qrcode path",
			html:        `qrcode/1111222233334444`,
			expectedKey: "1111222233334444",
		},
		{
			name: "src attribute fallback",
			html: `<img src="https://example.com/img/zzzzyyyyxxxxwwww">`,
			expectedKey: "zzzzyyyyxxxxwwww",
		},
		{
			name: "key is last 16 chars of a longer src",
			html: `<img class="qrcode" ` +
				`src="https://open.weixin.qq.com/connect/qrcode/ABCDEF0123456789">`,
			expectedKey: "ABCDEF0123456789",
		},
		{
			name: "no key present",
			html: `<html><body><p>nothing to see here</p></body></html>`,
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			key, err := extractQRKey(testCase.html)
			if testCase.expectedKey == "" {
				require.Error(t, err)
				require.IsType(t, &dida.ErrExtraction{}, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, testCase.expectedKey, key)
		})
	}
}
