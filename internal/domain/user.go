package domain

// User 后端返回的用户资料；注册后本地会话只有 FirstName/Phone
type User struct {
	ID        string `json:"id,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role,omitempty"` // "customer" / "admin"
}

// Profile 注册表单提交的完整资料
type Profile struct {
	FirstName string `json:"firstName" binding:"required,max=64"`
	LastName  string `json:"lastName"  binding:"omitempty,max=64"`
	Email     string `json:"email"     binding:"omitempty,email"`
	Phone     string `json:"phone"     binding:"required,max=32"`
	Password  string `json:"password"  binding:"required,min=6"`
}

// Credentials 登录表单
type Credentials struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password"   binding:"required"`
}
