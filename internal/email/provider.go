package email

// Provider определяет интерфейс для отправки email
type Provider interface {
	// Send отправляет HTML-письмо
	Send(to, subject, htmlBody string) error

	// SendVerification отправляет письмо подтверждения адреса
	SendVerification(to string, token string) error

	// Validate проверяет конфигурацию провайдера
	Validate() error
}
