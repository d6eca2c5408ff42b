package mailer

import (
	"fmt"
	"html/template"
)

// baseHTML wraps email body content in the shared dark/gold layout.
func baseHTML(body string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="es">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width,initial-scale=1">
  <title>Aurum Joyería</title>
  <style>
    body {
      margin: 0; padding: 0;
      background: #0a0a0a;
      font-family: Arial, Helvetica, sans-serif;
      color: #ffffff;
    }
    .wrapper {
      max-width: 600px;
      margin: 40px auto;
      padding: 0 16px 40px;
    }
    .logo-bar {
      text-align: center;
      padding: 32px 0 24px;
    }
    .logo-bar h1 {
      color: #f9dc5e;
      font-size: 28px;
      letter-spacing: 3px;
      margin: 0;
      text-transform: uppercase;
    }
    .card {
      background: linear-gradient(145deg, #1a1a1a, #252525);
      border: 1px solid #f9dc5e44;
      border-radius: 16px;
      padding: 36px 40px 40px;
    }
    h2 {
      color: #f9dc5e;
      font-size: 22px;
      margin: 0 0 14px;
    }
    p {
      color: #cccccc;
      font-size: 15px;
      line-height: 1.7;
      margin: 0 0 16px;
    }
    .code-block {
      background: #111;
      border: 2px solid #f9dc5e;
      border-radius: 10px;
      padding: 20px 24px;
      margin: 24px 0;
      text-align: center;
    }
    .code-label {
      color: #999;
      font-size: 12px;
      text-transform: uppercase;
      letter-spacing: 1px;
      margin: 0 0 10px;
    }
    .code-value {
      color: #f9dc5e;
      font-size: 17px;
      font-weight: bold;
      word-break: break-all;
      letter-spacing: 1px;
    }
    .btn {
      display: inline-block;
      background: linear-gradient(45deg, #f9dc5e, #ffd700);
      color: #000000 !important;
      text-decoration: none;
      font-weight: 700;
      font-size: 15px;
      padding: 14px 36px;
      border-radius: 10px;
      margin: 8px 0 20px;
    }
    .info-box {
      background: rgba(249,220,94,0.08);
      border-left: 4px solid #f9dc5e;
      border-radius: 6px;
      padding: 14px 18px;
      margin: 20px 0;
    }
    .info-box p {
      margin: 4px 0;
      font-size: 14px;
    }
    .warn-box {
      background: rgba(255,152,0,0.12);
      border-left: 4px solid #ff9800;
      border-radius: 6px;
      padding: 14px 18px;
      margin: 20px 0;
    }
    .warn-box p {
      margin: 4px 0;
      font-size: 14px;
      color: #ffcc80;
    }
    .footer {
      border-top: 1px solid #333;
      margin-top: 32px;
      padding-top: 20px;
      text-align: center;
    }
    .footer p {
      color: #666;
      font-size: 12px;
      margin: 4px 0;
    }
  </style>
</head>
<body>
  <div class="wrapper">
    <div class="logo-bar">
      <h1>✦ Aurum Joyería</h1>
    </div>
    <div class="card">
      %s
      <div class="footer">
        <p><strong style="color:#aaa">Aurum Joyería</strong> — Medellín, Colombia</p>
        <p>Este es un mensaje automático, por favor no respondas a este correo.</p>
      </div>
    </div>
  </div>
</body>
</html>`, body)
}

func renderVerificationEmail(name, code, verifyLink, profileURL string) string {
	body := fmt.Sprintf(`
      <h2>¡Bienvenido, %s! 🎉</h2>
      <p>Gracias por crear tu cuenta en Aurum Joyería. Para activarla, verifica tu correo electrónico usando una de estas opciones:</p>

      <div class="info-box">
        <p><strong>Opción 1 — Botón rápido:</strong></p>
        <p>Haz clic en el botón de abajo y tu cuenta quedará verificada automáticamente.</p>
      </div>

      <div style="text-align:center">
        <a href="%s" class="btn">Verificar mi cuenta</a>
      </div>

      <div class="info-box">
        <p><strong>Opción 2 — Código manual:</strong></p>
        <p>Copia el código y pégalo en la sección de verificación de tu perfil.</p>
      </div>

      <div class="code-block">
        <p class="code-label">Código de verificación</p>
        <p class="code-value">%s</p>
      </div>

      <p style="text-align:center">
        <a href="%s" style="color:#f9dc5e;font-size:14px;">→ Ir a mi perfil para pegar el código</a>
      </p>

      <div class="warn-box">
        <p>⏰ <strong>Este código expira en 24 horas.</strong></p>
        <p>Si no creaste esta cuenta, ignora este mensaje.</p>
      </div>`,
		escape(name), verifyLink, escape(code), profileURL)
	return baseHTML(body)
}

func renderPasswordResetEmail(name, code, resetURL string) string {
	body := fmt.Sprintf(`
      <h2>🔑 Recuperar contraseña</h2>
      <p>Hola <strong style="color:#f9dc5e">%s</strong>,</p>
      <p>Recibimos una solicitud para restablecer la contraseña de tu cuenta. Copia el código de abajo y pégalo en el formulario de recuperación.</p>

      <div class="code-block">
        <p class="code-label">Código de recuperación</p>
        <p class="code-value">%s</p>
      </div>

      <div style="text-align:center">
        <a href="%s" class="btn">Ir al formulario de recuperación</a>
      </div>

      <div class="warn-box">
        <p>⏰ <strong>Este código expira en 1 hora.</strong></p>
        <p>Si no solicitaste este cambio, ignora este mensaje — tu cuenta permanece segura.</p>
      </div>

      <p style="font-size:12px;color:#666;margin-top:24px;">
        ¿El botón no funciona? Copia y pega este enlace en tu navegador:<br>
        <span style="color:#888;word-break:break-all">%s</span>
      </p>`,
		escape(name), escape(code), resetURL, resetURL)
	return baseHTML(body)
}

func renderEmailChangeEmail(name, code string) string {
	body := fmt.Sprintf(`
      <h2>🔄 Verificar nuevo correo</h2>
      <p>Hola <strong style="color:#f9dc5e">%s</strong>,</p>
      <p>Has solicitado cambiar el correo de tu cuenta en Aurum Joyería. Para confirmar el cambio, copia y pega el siguiente código en tu perfil.</p>

      <div class="code-block">
        <p class="code-label">Código de verificación</p>
        <p class="code-value">%s</p>
      </div>

      <div class="warn-box">
        <p>⏰ <strong>Este código expira en 1 hora.</strong></p>
        <p>Si no solicitaste este cambio, ignora este mensaje — tu cuenta permanece segura.</p>
      </div>`,
		escape(name), escape(code))
	return baseHTML(body)
}

func escape(value string) string {
	return template.HTMLEscapeString(value)
}
