package catalog

import "github.com/pivolan/ocorrencias_analyzer/domain/models"

const (
	LabelDescricaoData2024         = "1. Descrição e data das ocorrências de 2024"
	LabelVooPrivado                = "2. Número das ocorrências e fase das operações que são do tipo Voo Privado"
	LabelIncidentesGraves          = "3. Fases e número das ocorrências classificadas como incidentes graves"
	LabelOrigem2024                = "4. Código ICAO dos aeródromos de origem, data e classificação das ocorrências de 2024"
	LabelConfins                   = "5. Ocorrências no Aeródromo de Confins (SBCF)"
	LabelSemPassageirosIlesos      = "6. Aeródromos de origem sem passageiros ilesos"
	LabelDecolagem                 = "7. Aeródromos com ocorrências na fase de decolagem"
	LabelAcidentesAerodromoPublico = "8. Quantidade de acidentes por aeródromo público"
	LabelAcidentesIncidentesRegiao = "9. Quantidade de acidentes e incidentes graves por região"
	LabelOcorrenciasPorFabricante  = "10. Ocorrências por fabricante"
)

var queries = []models.QueryDefinition{
	{
		Label: LabelDescricaoData2024,
		Statement: `
        SELECT Descricao, Data_Da_Ocorrencia
        FROM ocorrencia
        WHERE Data_Da_Ocorrencia > '2023-12-31'
    `,
	},
	{
		Label: LabelVooPrivado,
		Statement: `
        SELECT Numero_da_Ocorrencia, Fase_da_Operacao
        FROM operacao
        WHERE Tipo_da_Operacao = 'Voo Privado'
    `,
	},
	{
		Label: LabelIncidentesGraves,
		Statement: `
        SELECT O.Numero_da_Ocorrencia, OP.Fase_da_Operacao
        FROM ocorrencia AS O
        NATURAL JOIN operacao AS OP
        WHERE O.Classificacao_da_Ocorrencia = 'Incidente Grave'
    `,
	},
	{
		Label: LabelOrigem2024,
		Statement: `
        SELECT V.Aerodromo_de_Origem, O.Data_da_Ocorrencia, O.Classificacao_da_Ocorrencia
        FROM ocorrencia AS O
        NATURAL JOIN voo AS V
        WHERE O.Data_da_Ocorrencia > '2023-12-31' AND V.Aerodromo_de_Origem != 'None'
    `,
	},
	{
		Label: LabelConfins,
		Statement: `
        SELECT O.tipo_descricao, O.Data_da_Ocorrencia, O.Classificacao_da_Ocorrencia
        FROM ocorrencia AS O
        NATURAL JOIN voo AS V
        WHERE V.Aerodromo_de_Origem = 'SBCF' OR V.Aerodromo_de_Destino = 'SBCF'
    `,
	},
	{
		Label: LabelSemPassageirosIlesos,
		Statement: `
        SELECT DISTINCT V.Aerodromo_de_Origem, O.tipo_descricao
        FROM voo AS V
        NATURAL JOIN ocorrencia AS O
        NATURAL JOIN lesoes_ocorrencia AS LO
        JOIN lesao AS L ON LO.Pessoa_afetada = L.Pessoa_afetada AND LO.Tipo_Lesao = L.Tipo_Lesao
        WHERE NOT EXISTS (
            SELECT 1
            FROM lesoes_ocorrencia AS LO_sub
            JOIN lesao AS L_sub ON LO_sub.Pessoa_afetada = L_sub.Pessoa_afetada AND LO_sub.Tipo_Lesao = L_sub.Tipo_Lesao
            WHERE LO_sub.Numero_da_Ocorrencia = O.Numero_da_Ocorrencia
              AND L_sub.Pessoa_afetada = 'Passageiros'
              AND L_sub.Tipo_Lesao = 'Ileso'
        ) AND V.Aerodromo_de_Origem != 'None';
    `,
	},
	{
		Label: LabelDecolagem,
		Statement: `
        SELECT V.Aerodromo_de_Destino, V.Aerodromo_de_Origem
        FROM ocorrencia AS O
        NATURAL JOIN voo AS V
        NATURAL JOIN operacao AS OP
        WHERE OP.Fase_da_Operacao = 'Decolagem'
    `,
	},
	{
		Label: LabelAcidentesAerodromoPublico,
		Statement: `
        SELECT COUNT(O.Numero_da_Ocorrencia) AS qtd_ocorrencias, A.ICAO
        FROM ocorrencia AS O
        NATURAL JOIN voo AS V
        JOIN aerodromo AS A ON V.Aerodromo_de_Origem = A.ICAO OR V.Aerodromo_de_Destino = A.ICAO
        WHERE O.Classificacao_da_Ocorrencia = 'Acidente' AND A.Tipo_de_Aerodromo = 'Público'
        GROUP BY A.ICAO
        ORDER BY qtd_ocorrencias DESC;
    `,
	},
	{
		Label: LabelAcidentesIncidentesRegiao,
		Statement: `
        SELECT
            L.Regiao,
            COUNT(CASE WHEN O.Classificacao_da_Ocorrencia = 'Incidente Grave' THEN 1 END) AS qtd_incidentes_graves,
            COUNT(CASE WHEN O.Classificacao_da_Ocorrencia = 'Acidente' THEN 1 END) AS qtd_acidentes
        FROM ocorrencia AS O
        NATURAL JOIN local_ocorrencia
        NATURAL JOIN local AS L
        GROUP BY L.Regiao
    `,
	},
	{
		Label: LabelOcorrenciasPorFabricante,
		Statement: `
        SELECT
            A.Nome_do_Fabricante,
            COUNT(AO.Numero_da_Ocorrencia) AS qtd_ocorrencias
        FROM aeronave AS A
        NATURAL JOIN aeronave_ocorrencia AS AO
        NATURAL JOIN ocorrencia AS O
        WHERE A.Nome_do_Fabricante != 'None'
        GROUP BY A.Nome_do_Fabricante
        ORDER BY qtd_ocorrencias DESC;
    `,
	},
}
