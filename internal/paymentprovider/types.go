package paymentprovider

// InitializeRequest — запрос на инициализацию транзакции.
type InitializeRequest struct {
	Email       string         `json:"email"`                  // Адрес плательщика, обязателен для провайдера
	Amount      int            `json:"amount"`                 // Сумма в минорных единицах
	CallbackURL string         `json:"callback_url,omitempty"` // Куда вернуть пользователя после оплаты
	Metadata    map[string]any `json:"metadata,omitempty"`     // Служебные данные: username, months
}

// InitializeData — полезная часть ответа на инициализацию.
type InitializeData struct {
	AuthorizationURL string `json:"authorization_url"` // URL страницы оплаты
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"` // Ссылка для последующей верификации
}

// VerifyData — полезная часть ответа на верификацию транзакции.
type VerifyData struct {
	Status   string         `json:"status"` // "success" при успешной оплате
	Amount   int            `json:"amount"`
	Metadata map[string]any `json:"metadata"` // Метаданные, переданные при инициализации
}

// envelope — общий конверт ответов провайдера.
type envelope[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// TransactionSuccess — статус успешно завершённой транзакции в VerifyData.
const TransactionSuccess = "success"
