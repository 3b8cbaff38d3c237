package security

import (
	"encoding/base64"

	"golang.org/x/crypto/chacha20poly1305"

	errs "talentlink/tools/errs"
)

// Cipher 仅用于生成可读的消息预览；消息正文在核心流程里始终按不透明密文处理。
type Cipher struct {
	aead interface {
		Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
	}
}

func NewCipher(key []byte) (*Cipher, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, errs.WrapMsg(err, "cipher key invalid")
	}
	return &Cipher{aead: aead}, nil
}

// Decrypt 输入为 base64(nonce || ciphertext)。
func (c *Cipher) Decrypt(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", errs.ErrArgs.WrapMsg("ciphertext is not base64")
	}
	if len(raw) < chacha20poly1305.NonceSizeX {
		return "", errs.ErrArgs.WrapMsg("ciphertext too short")
	}
	nonce, body := raw[:chacha20poly1305.NonceSizeX], raw[chacha20poly1305.NonceSizeX:]
	plain, err := c.aead.Open(nil, nonce, body, nil)
	if err != nil {
		return "", errs.WrapMsg(err, "decrypt failed")
	}
	return string(plain), nil
}
