// Package hidden 实现追加在 issue 正文末尾的隐藏元数据块的编解码。
// 块是一个 HTML 注释，GitHub 渲染时不可见，内容是 key: value 行。
// 这个格式就是持久化格式，只能做加法修改，不能破坏旧数据的解析。
package hidden

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

const (
	blockOpen  = "<!--reviewsync"
	blockClose = "-->"

	// KeySession / KeyVersion 每个新建 record 都会携带的元数据键
	KeySession = "session"
	KeyVersion = "version"
)

// 匹配正文末尾的元数据块，捕获组是块内的 key: value 行
var blockPattern = regexp.MustCompile(`(?s)\n\n<!--reviewsync\n(.*?)\n-->\s*$`)

var linePattern = regexp.MustCompile(`^([^:\s]+): (.*)$`)

// Encode 把元数据块追加到可见正文之后
// 键按字典序排列，保证编码结果稳定；键或值与分隔符冲突时报错
func Encode(visible string, data map[string]string) (string, error) {
	if len(data) == 0 {
		return visible, nil
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(visible)
	sb.WriteString("\n\n")
	sb.WriteString(blockOpen)
	sb.WriteString("\n")
	for _, k := range keys {
		v := data[k]
		if err := checkKey(k); err != nil {
			return "", err
		}
		if err := checkValue(v); err != nil {
			return "", fmt.Errorf("value for key %q: %w", k, err)
		}
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(v)
		sb.WriteString("\n")
	}
	sb.WriteString(blockClose)

	return sb.String(), nil
}

// EncodeSession 把会话标识和客户端版本作为元数据附加到正文
// 新建 record 的正文都经由这里携带来源信息
func EncodeSession(visible, sessionID, version string) (string, error) {
	return Encode(visible, map[string]string{
		KeySession: sessionID,
		KeyVersion: version,
	})
}

// Decode 提取并移除正文末尾的元数据块
// 没有块或块格式损坏时返回原文和空映射，绝不报错：
// 旧版本创建的 record 本来就没有块
func Decode(text string) (string, map[string]string) {
	loc := blockPattern.FindStringSubmatchIndex(text)
	if loc == nil {
		return text, map[string]string{}
	}

	inner := text[loc[2]:loc[3]]
	data := make(map[string]string)
	for _, line := range strings.Split(inner, "\n") {
		m := linePattern.FindStringSubmatch(line)
		if m == nil {
			// 块内有无法识别的行，整个块按不存在处理
			return text, map[string]string{}
		}
		data[m[1]] = m[2]
	}

	return text[:loc[0]], data
}

func checkKey(key string) error {
	if key == "" {
		return fmt.Errorf("empty metadata key")
	}
	if strings.ContainsAny(key, ":\n ") {
		return fmt.Errorf("metadata key %q contains reserved characters", key)
	}
	return nil
}

func checkValue(value string) error {
	if strings.Contains(value, "\n") {
		return fmt.Errorf("contains newline")
	}
	if strings.Contains(value, blockClose) {
		return fmt.Errorf("contains comment terminator")
	}
	return nil
}
