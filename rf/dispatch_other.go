//go:build !amd64 && !arm64

package rf

func init() {
	setScalarMode()
}
