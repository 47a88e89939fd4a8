package database

const (
	// User queries
	queryGetUsers = `
		SELECT id, name, email, role, created_at, updated_at
		FROM users
		ORDER BY created_at`

	queryInsertUser = `
		INSERT INTO users (id, name, email, role) VALUES (?, ?, ?, ?)
		RETURNING id, name, email, role, created_at, updated_at`

	queryGetUserById = `
		SELECT id, name, email, role, created_at, updated_at
		FROM users
		WHERE id = ?`

	queryGetUserByEmail = `
		SELECT id, name, email, role, created_at, updated_at
		FROM users
		WHERE email = ?`

	// Balance queries
	queryGetBalance = `
		SELECT balance
		FROM account_balances
		WHERE user_id = ?`

	queryGetBalanceForUpdate = `
		SELECT id, balance, version
		FROM account_balances
		WHERE user_id = ?`

	queryInsertBalance = `
		INSERT INTO account_balances (id, user_id, balance, version)
		VALUES (?, ?, ?, ?)`

	queryUpdateBalance = `
		UPDATE account_balances
		SET balance = ?, last_entry_id = ?, version = version + 1, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ? AND version = ?`

	// Holding queries
	queryGetHolding = `
		SELECT quantity
		FROM holdings
		WHERE user_id = ? AND asset = ?`

	queryGetHoldingForUpdate = `
		SELECT id, quantity, version
		FROM holdings
		WHERE user_id = ? AND asset = ?`

	queryInsertHolding = `
		INSERT INTO holdings (id, user_id, asset, quantity, version)
		VALUES (?, ?, ?, ?, ?)`

	queryUpdateHolding = `
		UPDATE holdings
		SET quantity = ?, version = version + 1, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ? AND asset = ? AND version = ?`

	queryGetAllHoldings = `
		SELECT id, user_id, asset, quantity, version, updated_at
		FROM holdings
		WHERE user_id = ? AND CAST(quantity AS REAL) != 0
		ORDER BY asset`

	// Ledger entry queries
	queryInsertLedgerEntry = `
		INSERT INTO ledger_entries (id, user_id, entry_type, amount, balance_before, balance_after, reference_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	queryGetLedgerHistory = `
		SELECT id, user_id, entry_type, amount, balance_before, balance_after, reference_id, created_at
		FROM ledger_entries
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ? OFFSET ?`

	queryGetLedgerEntriesForUser = `
		SELECT amount
		FROM ledger_entries
		WHERE user_id = ?`

	// Deposit queries
	queryInsertDeposit = `
		INSERT INTO deposits (id, user_id, wallet_config_id, amount, proof_url)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, user_id, wallet_config_id, amount, proof_url, status, resolved_by, resolved_at, created_at`

	queryGetDepositForUpdate = `
		SELECT user_id, amount, status
		FROM deposits
		WHERE id = ?`

	queryResolveDeposit = `
		UPDATE deposits
		SET status = ?, resolved_by = ?, resolved_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = 'pending'`

	queryGetDeposits = `
		SELECT id, user_id, wallet_config_id, amount, proof_url, status, resolved_by, resolved_at, created_at
		FROM deposits
		WHERE (? = '' OR user_id = ?) AND (? = '' OR status = ?)
		ORDER BY created_at DESC`

	// Withdrawal queries
	queryInsertWithdrawal = `
		INSERT INTO withdrawals (
			id, user_id, amount, withdrawal_type,
			wallet_address, wallet_chain, bank_name, bank_account, bank_holder
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id, user_id, amount, withdrawal_type,
		          wallet_address, wallet_chain, bank_name, bank_account, bank_holder,
		          status, resolved_by, resolved_at, created_at`

	queryGetWithdrawalForUpdate = `
		SELECT user_id, amount, status
		FROM withdrawals
		WHERE id = ?`

	queryResolveWithdrawal = `
		UPDATE withdrawals
		SET status = ?, resolved_by = ?, resolved_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = 'pending'`

	queryGetWithdrawals = `
		SELECT id, user_id, amount, withdrawal_type,
		       wallet_address, wallet_chain, bank_name, bank_account, bank_holder,
		       status, resolved_by, resolved_at, created_at
		FROM withdrawals
		WHERE (? = '' OR user_id = ?) AND (? = '' OR status = ?)
		ORDER BY created_at DESC`

	// Trade queries
	queryCheckDuplicateTrade = `
		SELECT id FROM trades WHERE idempotency_key = ? LIMIT 1`

	queryInsertTrade = `
		INSERT INTO trades (id, user_id, side, asset, quantity, unit_price, total, fee, idempotency_key)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id, user_id, side, asset, quantity, unit_price, total, fee, idempotency_key, created_at`

	queryGetTrades = `
		SELECT id, user_id, side, asset, quantity, unit_price, total, fee, idempotency_key, created_at
		FROM trades
		WHERE user_id = ? AND (? = '' OR asset = ?)
		ORDER BY created_at DESC, rowid DESC
		LIMIT ? OFFSET ?`

	queryGetTradeQuantities = `
		SELECT side, quantity
		FROM trades
		WHERE user_id = ? AND asset = ?`

	queryGetMostRecentTradeTime = `
		SELECT MAX(created_at)
		FROM trades`

	// Wallet configuration queries
	queryInsertWalletConfig = `
		INSERT INTO wallet_configs (id, asset, display_name, network, address, qr_url, active)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id, asset, display_name, network, address, qr_url, active, created_at, updated_at`

	queryUpdateWalletConfig = `
		UPDATE wallet_configs
		SET asset = ?, display_name = ?, network = ?, address = ?, qr_url = ?, active = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`

	queryGetWalletConfigById = `
		SELECT id, asset, display_name, network, address, qr_url, active, created_at, updated_at
		FROM wallet_configs
		WHERE id = ?`

	queryGetWalletConfigs = `
		SELECT id, asset, display_name, network, address, qr_url, active, created_at, updated_at
		FROM wallet_configs
		WHERE (? = 0 OR active = 1)
		ORDER BY asset, created_at`

	queryGetActiveWalletConfig = `
		SELECT active FROM wallet_configs WHERE id = ?`
)
