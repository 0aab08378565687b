package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 使用场景：
//   - 索引错误：NO_CATALOG_DATA, NOT_FOUND
//   - 交互历史错误：NO_HISTORY
//   - 存储错误：NOT_FOUND, NOT_SUPPORTED
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "NO_CATALOG_DATA"）
	Message string // 错误消息
	Module  string // 模块名称（如 "index", "history", "store"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// GetDomainError 获取 DomainError，如果不是则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound      = "NOT_FOUND"        // 资源不存在
	ErrorCodeNotSupported  = "NOT_SUPPORTED"    // 操作不支持
	ErrorCodeNoCatalogData = "NO_CATALOG_DATA"  // 目录为空，索引无词表
	ErrorCodeNoHistory     = "NO_HISTORY"       // 用户无交互历史
	ErrorCodeInvalidInput  = "INVALID_INPUT"    // 输入无效
)

// 模块名称常量
const (
	ModuleIndex   = "index"   // 相似度索引
	ModuleHistory = "history" // 交互聚合
	ModuleStore   = "store"   // 存储模块
	ModuleCache   = "cache"   // 推荐结果缓存
)

// 预定义错误。
//
//   - ErrNoCatalogData：索引从空目录构建，任何相似度查询都是致命错误，
//     直到目录重新灌入为止。与"没有相似商品"的空结果严格区分。
//   - ErrUnknownProduct：查询的商品不在当前索引快照中。调用方可恢复
//     （例如重新拉取目录），内部不做重试。
//   - ErrNoInteractionHistory：用户没有任何交互记录，推荐无法取种子。
//     不是内部故障，而是一个明确定义的终态结果。
var (
	ErrNoCatalogData        = NewDomainError(ModuleIndex, ErrorCodeNoCatalogData, "index: catalog is empty, no vocabulary built")
	ErrUnknownProduct       = NewDomainError(ModuleIndex, ErrorCodeNotFound, "index: product not found in current snapshot")
	ErrNoInteractionHistory = NewDomainError(ModuleHistory, ErrorCodeNoHistory, "history: user has no recorded interactions")
)

// IsNoCatalogData 检查错误是否为空目录错误
func IsNoCatalogData(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNoCatalogData
	}
	return false
}

// IsUnknownProduct 检查错误是否为未知商品错误
func IsUnknownProduct(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Module == ModuleIndex && domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsNoInteractionHistory 检查错误是否为无交互历史
func IsNoInteractionHistory(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNoHistory
	}
	return false
}
