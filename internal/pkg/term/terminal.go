// Package term реализует интерактивную аутентификацию аккаунта через
// терминал: номер телефона берется из конфигурации, код подтверждения и
// пароль 2FA запрашиваются у оператора.
package term

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"
	"golang.org/x/xerrors"
)

// Terminal реализует интерфейс auth.UserAuthenticator поверх stdin/stdout.
type Terminal struct {
	phone  string
	reader *bufio.Reader
	writer io.Writer
}

var _ auth.UserAuthenticator = (*Terminal)(nil)

// NewTerminal создает новый экземпляр Terminal для указанного номера.
func NewTerminal(phone string) *Terminal {
	return &Terminal{
		phone:  phone,
		reader: bufio.NewReader(os.Stdin),
		writer: os.Stdout,
	}
}

// Phone возвращает номер телефона из конфигурации без запроса к оператору.
func (t *Terminal) Phone(_ context.Context) (string, error) {
	return t.phone, nil
}

// Code запрашивает у оператора код подтверждения, присланный Telegram.
func (t *Terminal) Code(_ context.Context, _ *tg.AuthSentCode) (string, error) {
	fmt.Fprint(t.writer, "Введите код подтверждения: ")
	code, err := t.reader.ReadString('\n')
	if err != nil {
		return "", xerrors.Errorf("failed to read code: %w", err)
	}
	return strings.TrimSpace(code), nil
}

// Password запрашивает пароль 2FA без эха ввода.
func (t *Terminal) Password(_ context.Context) (string, error) {
	fmt.Fprint(t.writer, "Введите пароль 2FA: ")
	password, err := termReadPassword()
	if err != nil {
		return "", err
	}
	fmt.Fprintln(t.writer)
	return string(password), nil
}

// AcceptTermsOfService принимает Условия обслуживания без подтверждения.
func (t *Terminal) AcceptTermsOfService(_ context.Context, tos tg.HelpTermsOfService) error {
	fmt.Fprintf(t.writer, "Приняты Условия обслуживания: %s\n", tos.Text)
	return nil
}

// SignUp не реализован: сервис работает только с существующим аккаунтом.
func (t *Terminal) SignUp(_ context.Context) (auth.UserInfo, error) {
	return auth.UserInfo{}, xerrors.New("signup not supported")
}
