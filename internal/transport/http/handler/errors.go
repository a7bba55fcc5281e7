package handler

const (
	errInternalServer     = "Erro interno do servidor"
	errEmailTaken         = "E-mail já cadastrado"
	errInvalidCredentials = "Credenciais inválidas"
	errUserNotFound       = "Usuário não encontrado"
	errAllFieldsRequired  = "Todos os campos são obrigatórios"
	errInvalidLimit       = "Limite inválido"

	msgUserCreated = "Usuário criado com sucesso"
	msgUserDeleted = "Usuário excluído com sucesso"
)
