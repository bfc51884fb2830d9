package response

// 业务状态码
const (
	CodeSuccess = 0
	CodeError   = 1

	// 鉴权 100xx
	ErrTokenInvalid = 10004
	ErrNoPermission = 10005

	// 促销 / 优惠券 200xx
	ErrCouponNotFound  = 20001
	ErrCouponInvalid   = 20002
	ErrCouponRejected  = 20003
	ErrCouponDuplicate = 20004
	ErrOfferNotFound   = 20101
	ErrOfferInvalid    = 20102

	// 商品 / 库存 / 购物车 300xx
	ErrProductNotFound   = 30001
	ErrVariantNotFound   = 30002
	ErrInventoryRejected = 30003
	ErrCartItemNotFound  = 30004
	ErrCartEmpty         = 30005
	ErrAddressNotFound   = 30006
	ErrDraftNotFound     = 30007
	ErrDraftStale        = 30008

	// 订单 / 钱包 400xx
	ErrOrderNotFound       = 40001
	ErrOrderItemNotFound   = 40002
	ErrInvalidTransition   = 40003
	ErrCustomerOnlyStatus  = 40004
	ErrConcurrentUpdate    = 40005
	ErrInsufficientStock   = 40006
	ErrInsufficientBalance = 40007
	ErrInvalidPayment      = 40008

	// 系统错误 500xx
	ErrServerInternal  = 50001
	ErrInvalidParam    = 50002
	ErrTooManyRequests = 50003
)
