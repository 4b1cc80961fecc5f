package pkg

import (
	"io"
	"os"
)

// CheckFileExist 检查文件是否存在
func CheckFileExist(filePath string) (bool, error) {
	_, err := os.Lstat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ReadInput 读取输入文件, "-" 表示标准输入
func ReadInput(filePath string, stdin io.Reader) ([]byte, error) {
	if filePath == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(filePath)
}

// WriteOutput 打开输出文件, 空路径或 "-" 表示标准输出
func WriteOutput(filePath string, stdout io.Writer) (io.Writer, func() error, error) {
	if filePath == "" || filePath == "-" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(filePath)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
