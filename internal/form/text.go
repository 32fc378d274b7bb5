package form

// Catalog holds the user-facing strings for one locale.
type Catalog struct {
	LoginSuccess     string
	LoginFailed      string
	RegisterSuccess  string
	RegisterFailed   string
	PasswordMismatch string
	FieldsRequired   string
}

var catalogs = map[string]Catalog{
	"en": {
		LoginSuccess:     "Login successful, redirecting...",
		LoginFailed:      "Login failed, please try again",
		RegisterSuccess:  "Registration successful, redirecting...",
		RegisterFailed:   "Registration failed, please try again",
		PasswordMismatch: "Passwords do not match",
		FieldsRequired:   "Username and password are required",
	},
	"zh": {
		LoginSuccess:     "登录成功，正在跳转...",
		LoginFailed:      "登录失败，请重试",
		RegisterSuccess:  "注册成功，正在跳转...",
		RegisterFailed:   "注册失败，请重试",
		PasswordMismatch: "两次输入的密码不一致",
		FieldsRequired:   "请输入用户名和密码",
	},
}

// CatalogFor returns the strings for locale, falling back to English.
func CatalogFor(locale string) Catalog {
	if c, ok := catalogs[locale]; ok {
		return c
	}
	return catalogs["en"]
}

func (c Catalog) success(m Mode) string {
	if m == ModeRegister {
		return c.RegisterSuccess
	}
	return c.LoginSuccess
}

func (c Catalog) failed(m Mode) string {
	if m == ModeRegister {
		return c.RegisterFailed
	}
	return c.LoginFailed
}
