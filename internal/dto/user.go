package dto

// UpdateAliasRequest 修改显示别名；空字符串表示清除
type UpdateAliasRequest struct {
	Alias string `json:"alias" binding:"max=100"`
}

// UserListRequest 用户列表查询
type UserListRequest struct {
	PaginationRequest
}

// TargetQuery 管理员代他人操作时指定的目标用户
type TargetQuery struct {
	TargetUserID string `form:"target_user_id" binding:"omitempty,uuid"`
}
