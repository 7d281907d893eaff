package constant

// AnonWordList 是匿名展示名的前缀词表（8 个）。
// 展示名形如 "Shadow4821"：词表均匀随机 + [1000, 9999] 均匀随机数字。
// 展示名只是装饰性标签，不保证唯一，同一来源的两次提交得到相互独立的标签。
var AnonWordList = []string{
	"Shadow",
	"Ghost",
	"Phantom",
	"Cipher",
	"Echo",
	"Raven",
	"Specter",
	"Wraith",
}

const (
	// AnonNumberMin / AnonNumberMax 是展示名数字部分的闭区间。
	AnonNumberMin = 1000
	AnonNumberMax = 9999
)
