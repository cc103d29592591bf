package hidden

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	visible := "The app crashes when saving a file."
	data := map[string]string{
		KeySession: "rse-2026-s1",
		KeyVersion: "1.4.0",
		"teamId":   "CS2103T-W12-3",
	}

	encoded, err := Encode(visible, data)
	require.NoError(t, err)

	gotVisible, gotData := Decode(encoded)
	assert.Equal(t, visible, gotVisible)
	assert.Equal(t, data, gotData)
}

func TestEncodeDecodeEmptyVisibleText(t *testing.T) {
	encoded, err := Encode("", map[string]string{KeySession: "abc"})
	require.NoError(t, err)

	gotVisible, gotData := Decode(encoded)
	assert.Equal(t, "", gotVisible)
	assert.Equal(t, map[string]string{KeySession: "abc"}, gotData)
}

func TestEncodeSessionRoundTrip(t *testing.T) {
	encoded, err := EncodeSession("The app crashes.", "rse-2026-s1", "3.4.0")
	require.NoError(t, err)

	visible, data := Decode(encoded)
	assert.Equal(t, "The app crashes.", visible)
	assert.Equal(t, map[string]string{
		KeySession: "rse-2026-s1",
		KeyVersion: "3.4.0",
	}, data)
}

func TestEncodeEmptyDataLeavesTextUnchanged(t *testing.T) {
	encoded, err := Encode("just a description", nil)
	require.NoError(t, err)
	assert.Equal(t, "just a description", encoded)
}

func TestEncodeIsStable(t *testing.T) {
	data := map[string]string{"b": "2", "a": "1", "c": "3"}

	first, err := Encode("text", data)
	require.NoError(t, err)

	// map 遍历顺序随机，编码结果必须稳定
	for i := 0; i < 10; i++ {
		again, err := Encode("text", data)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestDecodeWithoutBlock(t *testing.T) {
	// 旧版本创建的 record 没有隐藏块，必须原样返回
	text := "a plain issue body\nwith two lines"

	gotVisible, gotData := Decode(text)
	assert.Equal(t, text, gotVisible)
	assert.Empty(t, gotData)
}

func TestDecodeMalformedBlockTreatedAsAbsent(t *testing.T) {
	text := "body\n\n<!--reviewsync\nthis line has no separator\n-->"

	gotVisible, gotData := Decode(text)
	assert.Equal(t, text, gotVisible)
	assert.Empty(t, gotData)
}

func TestEncodeRejectsDelimiterCollisions(t *testing.T) {
	tests := []struct {
		name string
		data map[string]string
	}{
		{"value with terminator", map[string]string{"k": "evil -->"}},
		{"value with newline", map[string]string{"k": "line1\nline2"}},
		{"key with colon", map[string]string{"k:x": "v"}},
		{"key with space", map[string]string{"k x": "v"}},
		{"empty key", map[string]string{"": "v"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Encode("text", tt.data)
			assert.Error(t, err)
		})
	}
}

func TestDecodeKeepsEarlierLookalikeText(t *testing.T) {
	// 可见正文提到标记本身（没有完整块结构）不应被误剥离
	text := "mention of <!--reviewsync in prose"

	gotVisible, gotData := Decode(text)
	assert.Equal(t, text, gotVisible)
	assert.Empty(t, gotData)
}
