package recommend

import "github.com/nyashahama/fluir-backend/internal/scoring"

// comboRules are evaluated in this order. Several may fire for the same input.
var comboRules = []ComboRule{
	{
		Dimensions:  []string{"burnout", "stress", "conflito_trabalho_familia"},
		MinRed:      3,
		Priority:    PriorityImmediate,
		Title:       "[URGENTE] Risco sistêmico de esgotamento coletivo",
		Description: "A combinação de burnout, stress e conflito trabalho/família em níveis críticos indica risco de adoecimento coletivo. Recomenda-se: intervenção sistêmica urgente com redução de carga, programa de recuperação, política de flexibilidade e suporte psicológico imediato.",
	},
	{
		Dimensions:  []string{"burnout", "stress"},
		MinRed:      2,
		Priority:    PriorityImmediate,
		Title:       "[ATENCAO] Esgotamento e stress combinados",
		Description: "Burnout e stress em níveis elevados simultaneamente exigem ação imediata: redução de pressão, programa de gestão do stress, avaliação de cargas de trabalho e oferta de suporte emocional.",
	},
	{
		Dimensions:  []string{"burnout", "sintomas_depressivos"},
		MinRed:      2,
		Priority:    PriorityImmediate,
		Title:       "[URGENTE] Risco de afastamento por saúde mental",
		Description: "Burnout associado a sintomas depressivos indica risco elevado de afastamentos. Encaminhar para suporte psicológico, avaliar causas organizacionais e implementar programa de saúde mental.",
	},
	{
		Dimensions:  []string{"qualidade_lideranca", "apoio_superiores"},
		MinRed:      2,
		Priority:    PriorityImmediate,
		Title:       "[ATENCAO] Déficit de liderança e suporte",
		Description: "Liderança fraca combinada com falta de apoio dos superiores compromete toda a estrutura organizacional. Investir urgentemente em desenvolvimento de lideranças, coaching e reestruturação de gestão.",
	},
	{
		Dimensions:  []string{"qualidade_lideranca", "confianca_vertical", "justica_respeito"},
		MinRed:      2,
		Priority:    PriorityImmediate,
		Title:       "[URGENTE] Crise de governança organizacional",
		Description: "Déficits em liderança, confiança e justiça indicam crise de governança. Necessária intervenção na cultura organizacional: transparência, equidade nos processos e desenvolvimento de lideranças éticas.",
	},
	{
		Dimensions:  []string{"recompensas", "justica_respeito", "confianca_vertical"},
		MinRed:      2,
		Priority:    PriorityImmediate,
		Title:       "[ATENCAO] Percepção de injustiça sistêmica",
		Description: "Falta de reconhecimento combinada com injustiça e desconfiança gera desengajamento profundo. Revisar políticas de reconhecimento, criar processos transparentes e reconstruir confiança.",
	},
	{
		Dimensions:  []string{"exigencias_quantitativas", "ritmo_trabalho", "conflito_trabalho_familia"},
		MinRed:      2,
		Priority:    PriorityShort,
		Title:       "[ATENCAO] Sobrecarga invadindo a vida pessoal",
		Description: "Excesso de demandas e ritmo acelerado estão comprometendo a vida pessoal. Revisar metas e prazos, implementar política de desconexão digital e avaliar redistribuição de tarefas.",
	},
	{
		Dimensions:  []string{"influencia_trabalho", "possibilidades_desenvolvimento", "significado_trabalho"},
		MinRed:      2,
		Priority:    PriorityShort,
		Title:       "[ATENCAO] Desengajamento por falta de propósito e autonomia",
		Description: "Baixa autonomia, poucas oportunidades e perda de sentido indicam risco de desengajamento. Implementar gestão participativa, planos de desenvolvimento e reconexão com o propósito organizacional.",
	},
	{
		Dimensions:  []string{"inseguranca_laboral", "stress", "satisfacao_laboral"},
		MinRed:      2,
		Priority:    PriorityShort,
		Title:       "[ATENCAO] Instabilidade gerando ansiedade e insatisfação",
		Description: "Insegurança laboral combinada com stress e insatisfação requer comunicação transparente sobre o futuro da organização, suporte emocional e programas de retenção.",
	},
	{
		Dimensions:  []string{"comunidade_social", "comportamentos_ofensivos"},
		MinRed:      2,
		Priority:    PriorityImmediate,
		Title:       "[URGENTE] Ambiente de trabalho tóxico",
		Description: "Relações sociais deterioradas com presença de comportamentos ofensivos indicam ambiente tóxico. Intervenção imediata: investigação, mediação, aplicação de código de conduta e canal de denúncia.",
	},
	{
		Dimensions:  []string{"saude_geral", "problemas_dormir", "burnout"},
		MinRed:      2,
		Priority:    PriorityImmediate,
		Title:       "[URGENTE] Saúde física comprometida pelo trabalho",
		Description: "Saúde geral, sono e burnout em níveis críticos sugerem que o trabalho está adoecendo os colaboradores. Programa de saúde ocupacional integral, revisão de condições de trabalho e suporte médico.",
	},
}

// individualAdvice has a red and a yellow entry for every dimension.
var individualAdvice = map[string]map[scoring.Status]Advice{
	"exigencias_quantitativas": {
		scoring.StatusRed:    {"Sobrecarga de trabalho crítica", "Redistribuir tarefas e revisar prioridades. Avaliar necessidade de novas contratações. Implementar sistema de gestão de demandas com revisão semanal."},
		scoring.StatusYellow: {"Carga de trabalho em atenção", "Monitorar distribuição de tarefas. Promover reuniões de priorização semanais com as equipes."},
	},
	"ritmo_trabalho": {
		scoring.StatusRed:    {"Ritmo de trabalho insustentável", "Revisar prazos e metas. Implementar pausas estruturadas. Avaliar automação de processos repetitivos."},
		scoring.StatusYellow: {"Ritmo de trabalho elevado", "Mapear processos para identificar gargalos. Equilibrar picos de demanda com planejamento antecipado."},
	},
	"exigencias_cognitivas": {
		scoring.StatusRed:    {"Sobrecarga cognitiva", "Reduzir multitarefa. Criar ambientes livres de interrupções. Oferecer suporte para tomada de decisões complexas."},
		scoring.StatusYellow: {"Exigências cognitivas elevadas", "Fornecer ferramentas de apoio à decisão. Promover formação em gestão de prioridades."},
	},
	"exigencias_emocionais": {
		scoring.StatusRed:    {"Desgaste emocional significativo", "Implementar programa de apoio psicológico. Promover supervisão e espaços de partilha emocional. Avaliar rotação de funções."},
		scoring.StatusYellow: {"Demanda emocional moderada", "Oferecer formação em inteligência emocional. Criar espaços seguros de diálogo."},
	},
	"influencia_trabalho": {
		scoring.StatusRed:    {"Baixa autonomia no trabalho", "Ampliar participação dos colaboradores nas decisões. Delegar responsabilidades com acompanhamento. Implementar gestão participativa."},
		scoring.StatusYellow: {"Autonomia limitada", "Incentivar sugestões da equipe. Criar canais de participação nas decisões do setor."},
	},
	"possibilidades_desenvolvimento": {
		scoring.StatusRed:    {"Ausência de desenvolvimento profissional", "Criar plano de desenvolvimento individual (PDI). Investir em formação e capacitação. Implementar programa de mentoria."},
		scoring.StatusYellow: {"Oportunidades de desenvolvimento limitadas", "Mapear competências e lacunas. Promover job rotation e aprendizagem contínua."},
	},
	"significado_trabalho": {
		scoring.StatusRed:    {"Perda de sentido no trabalho", "Reconectar o trabalho individual ao propósito da organização. Promover storytelling organizacional. Oferecer projetos com impacto visível."},
		scoring.StatusYellow: {"Significado do trabalho em atenção", "Reforçar a missão e valores da organização. Comunicar o impacto do trabalho de cada equipa."},
	},
	"compromisso_trabalho": {
		scoring.StatusRed:    {"Baixo compromisso organizacional", "Investigar causas de desengajamento. Implementar programa de endomarketing. Fortalecer cultura organizacional."},
		scoring.StatusYellow: {"Compromisso moderado", "Promover eventos de integração. Fortalecer comunicação dos valores organizacionais."},
	},
	"auto_eficacia": {
		scoring.StatusRed:    {"Baixa auto-eficácia", "Oferecer feedback positivo e construtivo. Criar oportunidades de sucessos progressivos. Investir em coaching."},
		scoring.StatusYellow: {"Auto-eficácia moderada", "Reconhecer conquistas individuais. Promover partilha de boas práticas entre a equipa."},
	},
	"previsibilidade": {
		scoring.StatusRed:    {"Falta de previsibilidade organizacional", "Implementar comunicação transparente sobre mudanças. Criar calendário de informações. Envolver equipas no planeamento."},
		scoring.StatusYellow: {"Previsibilidade limitada", "Melhorar canais de comunicação interna. Antecipar informações sobre mudanças relevantes."},
	},
	"transparencia_papel": {
		scoring.StatusRed:    {"Ambiguidade de papéis", "Definir descrições de funções claras. Alinhar expectativas entre chefia e equipa. Realizar reuniões de alinhamento."},
		scoring.StatusYellow: {"Clareza de papel em atenção", "Revisar descrições de funções periodicamente. Promover diálogo sobre expectativas."},
	},
	"recompensas": {
		scoring.StatusRed:    {"Déficit de reconhecimento", "Implementar programa de reconhecimento estruturado. Treinar lideranças em feedback positivo. Criar rituais de celebração."},
		scoring.StatusYellow: {"Reconhecimento insuficiente", "Ampliar práticas de reconhecimento formal e informal. Valorizar conquistas da equipa."},
	},
	"qualidade_lideranca": {
		scoring.StatusRed:    {"Déficit na qualidade da liderança", "Investir em programa de desenvolvimento de lideranças. Realizar assessment de competências gerenciais. Promover coaching executivo."},
		scoring.StatusYellow: {"Liderança em desenvolvimento", "Oferecer formação contínua para líderes. Implementar feedback 360° para gestores."},
	},
	"apoio_superiores": {
		scoring.StatusRed:    {"Falta de apoio da chefia", "Treinar lideranças em escuta ativa e suporte. Implementar reuniões individuais (1:1) regulares. Criar cultura de porta aberta."},
		scoring.StatusYellow: {"Apoio da chefia limitado", "Incentivar reuniões periódicas entre líder e equipa. Fortalecer proximidade com a gestão."},
	},
	"comunidade_social": {
		scoring.StatusRed:    {"Ambiente social deteriorado", "Implementar programa de team building. Mediar conflitos existentes. Promover atividades de integração social."},
		scoring.StatusYellow: {"Relações sociais em atenção", "Fomentar momentos de convivência. Criar espaços de interação informal."},
	},
	"confianca_vertical": {
		scoring.StatusRed:    {"Crise de confiança organizacional", "Aumentar transparência nas decisões gerenciais. Cumprir compromissos assumidos. Abrir canais de comunicação bidirecional."},
		scoring.StatusYellow: {"Confiança vertical moderada", "Melhorar comunicação entre gestão e equipas. Demonstrar coerência entre discurso e prática."},
	},
	"justica_respeito": {
		scoring.StatusRed:    {"Percepção de injustiça organizacional", "Revisar critérios de distribuição de trabalho. Implementar processos transparentes de resolução de conflitos. Garantir equidade."},
		scoring.StatusYellow: {"Justiça em atenção", "Comunicar critérios de decisão com transparência. Criar canal de ouvidoria."},
	},
	"inseguranca_laboral": {
		scoring.StatusRed:    {"Insegurança laboral elevada", "Comunicar perspetivas organizacionais com transparência. Oferecer suporte em transições. Reforçar estabilidade quando possível."},
		scoring.StatusYellow: {"Insegurança laboral moderada", "Manter comunicação clara sobre a situação da organização. Reforçar compromisso com os colaboradores."},
	},
	"satisfacao_laboral": {
		scoring.StatusRed:    {"Insatisfação laboral generalizada", "Realizar escuta ativa sobre causas. Implementar melhorias no ambiente e condições. Aplicar pesquisa qualitativa complementar."},
		scoring.StatusYellow: {"Satisfação laboral moderada", "Identificar fatores de satisfação e insatisfação. Implementar melhorias pontuais com impacto visível."},
	},
	"conflito_trabalho_familia": {
		scoring.StatusRed:    {"Conflito trabalho-família crítico", "Implementar políticas de flexibilidade (horários, teletrabalho). Revisar carga horária. Respeitar limites entre trabalho e vida pessoal."},
		scoring.StatusYellow: {"Conflito trabalho-família moderado", "Avaliar possibilidade de horários flexíveis. Promover cultura de respeito ao tempo pessoal."},
	},
	"saude_geral": {
		scoring.StatusRed:    {"Saúde geral comprometida", "Implementar programa de qualidade de vida. Oferecer avaliação de saúde periódica. Promover hábitos saudáveis no trabalho."},
		scoring.StatusYellow: {"Saúde geral em atenção", "Incentivar atividade física e alimentação saudável. Oferecer ginástica laboral."},
	},
	"problemas_dormir": {
		scoring.StatusRed:    {"Distúrbios de sono significativos", "Avaliar fatores laborais que afetam o sono (turnos, stress). Oferecer programa de higiene do sono. Encaminhar casos graves para acompanhamento."},
		scoring.StatusYellow: {"Qualidade do sono em atenção", "Orientar sobre higiene do sono. Avaliar impacto da carga de trabalho nos horários de descanso."},
	},
	"burnout": {
		scoring.StatusRed:    {"Burnout — Intervenção urgente", "Reduzir carga de trabalho imediatamente. Implementar programa de recuperação. Oferecer suporte psicológico. Avaliar causas sistêmicas."},
		scoring.StatusYellow: {"Sinais de esgotamento", "Monitorar indicadores de exaustão. Promover momentos de recuperação. Incentivar uso de férias e folgas."},
	},
	"stress": {
		scoring.StatusRed:    {"Níveis de stress críticos", "Implementar programa de gestão do stress. Oferecer técnicas de relaxamento e mindfulness. Avaliar e reduzir fontes de pressão."},
		scoring.StatusYellow: {"Stress moderado", "Promover técnicas de gestão do stress. Avaliar picos de pressão e seus gatilhos."},
	},
	"sintomas_depressivos": {
		scoring.StatusRed:    {"Sintomas depressivos — Atenção especial", "Encaminhar para apoio psicológico especializado. Avaliar ambiente de trabalho como fator contribuinte. Oferecer suporte emocional."},
		scoring.StatusYellow: {"Indicadores de tristeza", "Fortalecer suporte social no trabalho. Monitorar e oferecer canais de acolhimento."},
	},
	"comportamentos_ofensivos": {
		scoring.StatusRed:    {"Comportamentos ofensivos — Intervenção imediata", "Investigar situações reportadas. Implementar política de tolerância zero. Criar canal seguro de denúncia. Aplicar medidas disciplinares quando necessário."},
		scoring.StatusYellow: {"Sinais de comportamentos inadequados", "Reforçar código de conduta. Promover formação sobre respeito e diversidade. Monitorar clima."},
	},
}
