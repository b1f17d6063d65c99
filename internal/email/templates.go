package email

import (
	"fmt"
	"html/template"
	"strings"
	"sync"
)

const TemplateVerification = "verification"

// TemplateData представляет данные для шаблонов писем
type TemplateData map[string]interface{}

// TemplateManager хранит и рендерит шаблоны писем
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

// NewTemplateManager создает менеджер с предзагруженными шаблонами
func NewTemplateManager() *TemplateManager {
	tm := &TemplateManager{
		templates: make(map[string]*template.Template),
	}
	// встроенные шаблоны парсятся при старте, ошибок тут быть не может
	_ = tm.AddTemplate(TemplateVerification, verificationTemplate)
	return tm
}

// Render рендерит шаблон с данными
func (tm *TemplateManager) Render(templateName string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[templateName]
	tm.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// AddTemplate добавляет шаблон в менеджер
func (tm *TemplateManager) AddTemplate(name string, templateStr string) error {
	tpl, err := template.New(name).Parse(templateStr)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()

	return nil
}

const verificationTemplate = `
<html>
<body>
  <h2>Добро пожаловать в Tranzit</h2>
  <p>Для подтверждения адреса перейдите по ссылке:</p>
  <p><a href="{{.VerifyLink}}">Подтвердить email</a></p>
  <p>После подтверждения аккаунт будет рассмотрен администратором.</p>
</body>
</html>`
