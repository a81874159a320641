package response

import (
	"errors"
	"strings"

	errs "github.com/amirhossein-jamali/wallet-service/internal/domain/error"
)

// Supported response languages
const (
	LangEnglish = "en"
	LangRussian = "ru"
)

// Message keys
const (
	msgValidation         = "validation"
	msgDuplicateUser      = "duplicate_user"
	msgInvalidCredentials = "invalid_credentials"
	msgUserNotFound       = "user_not_found"
	msgSenderNotFound     = "sender_not_found"
	msgRecipientNotFound  = "recipient_not_found"
	msgInsufficientFunds  = "insufficient_funds"
	msgSelfTransfer       = "self_transfer"
	msgMethodNotAllowed   = "method_not_allowed"
	msgConcurrentUpdate   = "concurrent_update"
	msgInternal           = "internal"
	msgNotFound           = "not_found"
	msgUnavailable        = "unavailable"
)

var catalog = map[string]map[string]string{
	LangEnglish: {
		msgValidation:         "Invalid request",
		msgDuplicateUser:      "User with this username already exists",
		msgInvalidCredentials: "Invalid username or password",
		msgUserNotFound:       "User not found",
		msgSenderNotFound:     "Sender not found",
		msgRecipientNotFound:  "Recipient not found",
		msgInsufficientFunds:  "Insufficient funds",
		msgSelfTransfer:       "Cannot transfer to yourself",
		msgMethodNotAllowed:   "Method not allowed",
		msgConcurrentUpdate:   "Concurrent update, please retry",
		msgInternal:           "Internal server error",
		msgNotFound:           "Not found",
		msgUnavailable:        "Service unavailable",
	},
	LangRussian: {
		msgValidation:         "Некорректный запрос",
		msgDuplicateUser:      "Пользователь с таким именем уже существует",
		msgInvalidCredentials: "Неверное имя пользователя или пароль",
		msgUserNotFound:       "Пользователь не найден",
		msgSenderNotFound:     "Отправитель не найден",
		msgRecipientNotFound:  "Получатель не найден",
		msgInsufficientFunds:  "Недостаточно средств",
		msgSelfTransfer:       "Нельзя переводить самому себе",
		msgMethodNotAllowed:   "Метод не поддерживается",
		msgConcurrentUpdate:   "Конфликт обновления, повторите попытку",
		msgInternal:           "Внутренняя ошибка сервера",
		msgNotFound:           "Не найдено",
		msgUnavailable:        "Сервис недоступен",
	},
}

// ParseLanguage picks the first supported language from an Accept-Language
// header, falling back to def
func ParseLanguage(header, def string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		primary := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if _, ok := catalog[primary]; ok {
			return primary
		}
	}
	if _, ok := catalog[def]; ok {
		return def
	}
	return LangEnglish
}

func lookup(lang, key string) string {
	if msgs, ok := catalog[lang]; ok {
		if msg, ok := msgs[key]; ok {
			return msg
		}
	}
	return catalog[LangEnglish][key]
}

// messageKey maps a domain error to its catalog key. Order matters: the
// sender and recipient variants also match ErrUserNotFound.
func messageKey(err error) string {
	switch {
	case errors.Is(err, errs.ErrValidation):
		return msgValidation
	case errors.Is(err, errs.ErrDuplicateUser):
		return msgDuplicateUser
	case errors.Is(err, errs.ErrInvalidCredentials):
		return msgInvalidCredentials
	case errors.Is(err, errs.ErrSenderNotFound):
		return msgSenderNotFound
	case errors.Is(err, errs.ErrRecipientNotFound):
		return msgRecipientNotFound
	case errors.Is(err, errs.ErrUserNotFound):
		return msgUserNotFound
	case errors.Is(err, errs.ErrInsufficientFunds):
		return msgInsufficientFunds
	case errors.Is(err, errs.ErrSelfTransfer):
		return msgSelfTransfer
	case errors.Is(err, errs.ErrMethodNotAllowed):
		return msgMethodNotAllowed
	case errors.Is(err, errs.ErrConcurrentUpdate):
		return msgConcurrentUpdate
	default:
		return msgInternal
	}
}

// Message returns the localized message for err. Validation errors carry
// the rejected field and reason.
func Message(lang string, err error) string {
	key := messageKey(err)
	msg := lookup(lang, key)

	var vErr *errs.ValidationError
	if key == msgValidation && errors.As(err, &vErr) {
		return msg + ": " + vErr.Error()
	}
	return msg
}
