package env

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// 从当前目录向上查找 .env, 找不到时只使用进程环境变量
var dotenvPaths = []string{
	".env",
	"../.env",
	"../../.env",
	"../../../.env",
	"../../../../.env",
}

func init() {
	Load()
}

// Load 加载第一个存在的 .env 文件, 返回其路径. 已存在的环境变量不会被覆盖
func Load() string {
	for _, path := range dotenvPaths {
		if err := godotenv.Load(path); err == nil {
			full, err := filepath.Abs(path)
			if err != nil {
				return path
			}
			return full
		}
	}
	return ""
}

// lookup 空字符串视为未设置
func lookup(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}

func String(key string, defaultValue string) string {
	if v, ok := lookup(key); ok {
		return v
	}
	return defaultValue
}

func MustString(key string) string {
	v, ok := lookup(key)
	if !ok {
		panic(fmt.Sprintf("环境变量 %s 不能为空", key))
	}
	return v
}

// Int 非法数字时返回默认值
func Int(key string, defaultValue int) int {
	if v, ok := lookup(key); ok {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func Bool(key string, defaultValue bool) bool {
	if v, ok := lookup(key); ok {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return defaultValue
}

// Duration 解析 "30m", "12h" 这类时长, 非法时返回默认值
func Duration(key string, defaultValue time.Duration) time.Duration {
	if v, ok := lookup(key); ok {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

func IsDev() bool {
	return Bool("DEV", false)
}

func IsDebug() bool {
	return Bool("DEBUG", false)
}

// DirPath 将相对路径转换为相对于 BASE_DIR 的绝对路径
func DirPath(key string, defaultValue string) string {
	dir := String(key, defaultValue)
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(BaseDir(), dir)
}

func BaseDir() string {
	return tildeExpand(String("BASE_DIR", "."))
}

// 展开 ~, 例如 ~/log 展开为 $HOME/log
func tildeExpand(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	usr, err := user.Current()
	if err != nil {
		return p
	}
	if p == "~" {
		return usr.HomeDir
	}
	return filepath.Join(usr.HomeDir, p[2:])
}
