// Package api содержит HTTP-клиент для взаимодействия с сервером TokenKeeper.
//
// Клиент инкапсулирует базовый URL сервера и настроенный http.Client,
// предоставляя низкоуровневые методы отправки JSON-запросов (PostJSON/GetJSON)
// и типизированные методы под эндпоинты сервера (IssueTokens/Refresh/Whoami).
//
// Особенности:
//   - baseURL нормализуется (обрезаются завершающие "/").
//   - По умолчанию добавляется заголовок Accept: application/json.
//   - Сервер отвечает в едином конверте {"success":..., "data":...}:
//     клиент разворачивает конверт и при success=false возвращает ошибку
//     с message и code из тела.
//
// ВНИМАНИЕ: NewClient включает InsecureSkipVerify=true (TLS сертификат не проверяется).
// Это допустимо только для разработки и локального окружения.
package api

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client реализует HTTP-клиент для общения с сервером TokenKeeper.
type Client struct {
	baseURL string
	http    *http.Client
}

// envelope — форма ответа сервера (api.SuccessResponse / api.ErrorResponse).
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

// TokenPair — пара токенов из data успешного ответа.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenID      string `json:"token_id"`
}

// Whoami — субъект access-токена из data успешного ответа.
type Whoami struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// NewClient создаёт новый HTTP-клиент для общения с сервером.
//
// baseURL — базовый адрес сервера (например: "https://127.0.0.1:8080").
//
// ВНИМАНИЕ: InsecureSkipVerify=true отключает проверку сертификата и делает TLS
// уязвимым для MITM. Использовать только для локальной разработки/тестов.
func NewClient(baseURL string) *Client {
	tr := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, // только для dev
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   10 * time.Second,
			Transport: tr,
		},
	}
}

// apiError разворачивает тело ошибочного ответа.
//
// Сервер шлёт {"success":false,"message":...,"code":...}; если тело не
// парсится или пустое — в ошибку идёт res.Status.
func apiError(res *http.Response) error {
	raw, _ := io.ReadAll(res.Body)

	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Message != "" {
		if env.Code != "" {
			return fmt.Errorf("%s (%s)", env.Message, env.Code)
		}
		return errors.New(env.Message)
	}

	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		msg = res.Status
	}
	return errors.New(msg)
}

// decodeData разворачивает конверт успешного ответа и декодирует data в out.
//
// Пустое тело (io.EOF) не считается ошибкой — это полезно для эндпоинтов
// без полезной нагрузки. out == nil пропускает декодирование data.
func decodeData(r io.Reader, out any) error {
	var env envelope
	err := json.NewDecoder(r).Decode(&env)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return err
	}
	if !env.Success {
		if env.Message != "" {
			return errors.New(env.Message)
		}
		return errors.New("server returned success=false")
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}

// PostJSON выполняет POST-запрос к серверу, сериализуя req в JSON.
//
// path — путь относительно baseURL (например: "/auth/tokens"),
// req — тело запроса (nil — без тела и без Content-Type),
// out — куда декодировать data успешного ответа (nil — не декодировать),
// authToken — access токен; если непустой, добавляется Authorization: Bearer.
//
// Не-2xx ответы превращаются в ошибку с message/code из конверта.
func (c *Client) PostJSON(path string, req any, out any, authToken string) error {
	var buf bytes.Buffer
	if req != nil {
		if err := json.NewEncoder(&buf).Encode(req); err != nil {
			return err
		}
	}

	r, err := http.NewRequest(http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	r.Header.Set("Accept", "application/json")
	if req != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if authToken != "" {
		r.Header.Set("Authorization", "Bearer "+authToken)
	}

	res, err := c.http.Do(r)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return apiError(res)
	}

	if res.StatusCode == http.StatusNoContent {
		return nil
	}

	return decodeData(res.Body, out)
}

// GetJSON выполняет GET-запрос к серверу и (опционально) декодирует data ответа.
func (c *Client) GetJSON(path string, out any, authToken string) error {
	r, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	r.Header.Set("Accept", "application/json")
	if authToken != "" {
		r.Header.Set("Authorization", "Bearer "+authToken)
	}

	res, err := c.http.Do(r)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return apiError(res)
	}

	if res.StatusCode == http.StatusNoContent {
		return nil
	}

	return decodeData(res.Body, out)
}

// IssueTokens запрашивает выпуск новой пары токенов для субъекта.
func (c *Client) IssueTokens(userID, email string) (TokenPair, error) {
	var pair TokenPair
	err := c.PostJSON("/auth/tokens", map[string]string{
		"user_id": userID,
		"email":   email,
	}, &pair, "")
	return pair, err
}

// Refresh обменивает refresh-токен на новую пару (старый становится одноразовым).
func (c *Client) Refresh(refreshToken string) (TokenPair, error) {
	var pair TokenPair
	err := c.PostJSON("/auth/refresh", map[string]string{
		"refresh_token": refreshToken,
	}, &pair, "")
	return pair, err
}

// WhoamiRequest спрашивает у сервера субъекта переданного access-токена.
func (c *Client) WhoamiRequest(accessToken string) (Whoami, error) {
	var who Whoami
	err := c.GetJSON("/auth/whoami", &who, accessToken)
	return who, err
}
