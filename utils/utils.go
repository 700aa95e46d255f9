// Package utils contains helper functions shared by the pipeline packages
package utils

import "strings"

// DictToString converts a dictionary to a string so
// it can be included in a log line.
func DictToString(m map[string]string) string {
	stringMapList := make([]string, len(m))
	i := 0
	for k, val := range m {
		stringMapList[i] = k + "=" + val
		i++
	}
	stringMap := strings.Join(stringMapList, ",")

	return "{" + stringMap + "}"
}

// TopicForFrame derives the output channel name for a cloud re-expressed in
// the given frame, e.g. "points" and "base_link" become "points_base_link".
// Frame separators are flattened so the name stays filesystem safe.
func TopicForFrame(base, frame string) string {
	frame = strings.ReplaceAll(frame, "/", "_")
	if frame == "" {
		return base
	}
	return base + "_" + frame
}
