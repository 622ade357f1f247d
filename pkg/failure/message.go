package failure

import (
	"errors"
	"net/http"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	msgNoConnectivity = "No internet connection"
	msgTimeout        = "The request timed out"
	msgInvalidInput   = "The data you entered is invalid"
	msgUnauthorized   = "You are not authorized to do this"
	msgNotFound       = "The requested data was not found"
	msgServerError    = "The server failed, please try again later"
	msgGeneral        = "Something went wrong"
)

func init() {
	for key, translation := range map[string]string{
		msgNoConnectivity: "Нет подключения к интернету",
		msgTimeout:        "Превышено время ожидания запроса",
		msgInvalidInput:   "Введены некорректные данные",
		msgUnauthorized:   "Недостаточно прав для этого действия",
		msgNotFound:       "Запрошенные данные не найдены",
		msgServerError:    "Ошибка сервера, попробуйте позже",
		msgGeneral:        "Что-то пошло не так",
	} {
		_ = message.SetString(language.Russian, key, translation)
		_ = message.SetString(language.English, key, key)
	}
}

// Message returns the user-facing message for err in the language of tag.
// Languages without a translation get English.
func Message(err error, tag language.Tag) string {
	return message.NewPrinter(tag).Sprintf(messageKey(err))
}

func messageKey(err error) string {
	var f *Error
	if !errors.As(err, &f) {
		return msgGeneral
	}

	switch f.Kind {
	case NoConnectivity:
		return msgNoConnectivity
	case Timeout:
		return msgTimeout
	case ServerError:
		return msgServerError
	case ClientError:
		switch f.Status {
		case http.StatusUnauthorized, http.StatusForbidden:
			return msgUnauthorized
		case http.StatusNotFound:
			return msgNotFound
		}
		return msgInvalidInput
	}

	return msgGeneral
}
