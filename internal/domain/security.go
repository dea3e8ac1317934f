package domain

// DefaultDangerousPatterns is the literal substring deny-list checked before execution.
// Matching is a plain substring test: "dd" also hits "add" or "address".
var DefaultDangerousPatterns = []string{
	"rm -rf",
	"dd",
	"mkfs",
	"shred",
	"fdisk",
	"mv",
	"chmod 777",
	"> /dev/sda",
}
