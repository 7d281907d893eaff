package constant

// Category 是帖子所属的版块，取值固定，不允许自定义。
type Category string

const (
	CategoryGeneral    Category = "general"
	CategoryTech       Category = "tech"
	CategoryCrypto     Category = "crypto"
	CategorySociety    Category = "society"
	CategoryRandom     Category = "random"
	CategoryConfession Category = "confession"
	CategoryQuestion   Category = "question"
)

// Categories 是全部合法版块的列表，供校验器与前端下拉框使用。
var Categories = []Category{
	CategoryGeneral,
	CategoryTech,
	CategoryCrypto,
	CategorySociety,
	CategoryRandom,
	CategoryConfession,
	CategoryQuestion,
}

// IsValidCategory 判断给定字符串是否为合法版块。
func IsValidCategory(s string) bool {
	for _, c := range Categories {
		if string(c) == s {
			return true
		}
	}
	return false
}
