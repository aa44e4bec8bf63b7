package json

import (
	"os"
	"regexp"
)

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z0-9_]+)\}`)

// ReplaceEnvVars 将配置内容中的 ${VAR} 占位符替换为环境变量值
func ReplaceEnvVars(raw []byte) ([]byte, error) {
	out := envVarPattern.ReplaceAllFunc(raw, func(m []byte) []byte {
		name := envVarPattern.FindSubmatch(m)[1]
		return []byte(os.Getenv(string(name)))
	})
	return out, nil
}
